package brender_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carmaload/pkg/brender"
	"github.com/Faultbox/carmaload/pkg/brender/brendertest"
)

// makeTriangleModel appends a one-triangle model block.
func makeTriangleModel(b *brendertest.Builder, name string) *brendertest.Builder {
	return b.Model(0, name).
		MaterialIndex("RED.MAT", "BLUE.MAT").
		Vertices(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}).
		UVs(mgl32.Vec2{0, 0}, mgl32.Vec2{0, 1}, mgl32.Vec2{1, 1}).
		Faces(brender.Face{V1: 0, V2: 1, V3: 2, Smoothing: 1}).
		FaceMaterials(2).
		Pivot(mgl32.Vec3{0.5, 0, 0}).
		End()
}

func TestCalcPlaneNormal(t *testing.T) {
	x := mgl32.Vec3{1, 0, 0}
	y := mgl32.Vec3{0, 1, 0}
	zero := mgl32.Vec3{}

	tests := []struct {
		name       string
		v1, v2, v3 mgl32.Vec3
		want       mgl32.Vec3
	}{
		{"counter-clockwise", y, zero, x, mgl32.Vec3{0, 0, 1}},
		{"clockwise", x, zero, y, mgl32.Vec3{0, 0, -1}},
		{"scaled", y.Mul(5), zero, x.Mul(3), mgl32.Vec3{0, 0, 1}},
		{"degenerate", x, x, y, zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := brender.CalcPlaneNormal(tt.v1, tt.v2, tt.v3)
			if !vecNear(got, tt.want, 1e-6) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadModel_HeaderOnly(t *testing.T) {
	stream := brendertest.New().FileInfo(brender.FileModel, 3).End()

	m, err := brender.ReadModel(stream.Reader())
	if err != nil {
		t.Fatalf("ReadModel: %v", err)
	}
	if m.Name != "" || len(m.Vertices) != 0 || len(m.Faces) != 0 {
		t.Errorf("expected empty model, got %v", m)
	}
}

func TestReadModel(t *testing.T) {
	m, err := brender.ReadModel(makeTriangleModel(brendertest.New(), "EAGLE").Reader())
	if err != nil {
		t.Fatalf("ReadModel: %v", err)
	}

	if m.Name != "EAGLE" {
		t.Errorf("Name = %q, want EAGLE", m.Name)
	}
	if len(m.Vertices) != 3 || len(m.UVs) != 3 || len(m.Faces) != 1 {
		t.Fatalf("got %v", m)
	}
	if m.Pivot != (mgl32.Vec3{0.5, 0, 0}) {
		t.Errorf("Pivot = %v", m.Pivot)
	}
	if len(m.Normals) != 3 {
		t.Fatalf("Normals = %v", m.Normals)
	}
	for i, n := range m.Normals {
		if !vecNear(n, mgl32.Vec3{0, 0, 1}, 1e-6) {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
	if name, ok := m.FaceMaterial(0); !ok || name != "BLUE.MAT" {
		t.Errorf("FaceMaterial(0) = %q, %v, want BLUE.MAT", name, ok)
	}
}

func TestModel_NormalsLastFaceWins(t *testing.T) {
	m := &brender.Model{
		Vertices: []mgl32.Vec3{{0, 1, 0}, {0, 0, 0}, {1, 0, 0}},
		Faces: []brender.Face{
			{V1: 0, V2: 1, V3: 2},
			{V1: 2, V2: 1, V3: 0},
		},
	}
	m.CalcNormals()
	for i, n := range m.Normals {
		if !vecNear(n, mgl32.Vec3{0, 0, -1}, 1e-6) {
			t.Errorf("normal %d = %v, want -Z", i, n)
		}
	}
}

func TestModel_FaceMaterialNone(t *testing.T) {
	m := &brender.Model{MaterialNames: []string{"A"}, FaceMaterials: []uint16{0, 1}}
	if _, ok := m.FaceMaterial(0); ok {
		t.Error("index 0 should mean no material")
	}
	if name, ok := m.FaceMaterial(1); !ok || name != "A" {
		t.Errorf("FaceMaterial(1) = %q, %v", name, ok)
	}
	if _, ok := m.FaceMaterial(5); ok {
		t.Error("face past the list should have no material")
	}
}

func TestReadModel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stream  *brendertest.Builder
		wantErr error
	}{
		{
			name:    "wrong file type",
			stream:  brendertest.New().FileInfo(brender.FileActor, 2).End(),
			wantErr: brender.ErrResourceTypeMismatch,
		},
		{
			name:    "attribute before model",
			stream:  brendertest.New().Vertices(mgl32.Vec3{}).End(),
			wantErr: brender.ErrStackEmpty,
		},
		{
			name:    "actor chunk in model",
			stream:  brendertest.New().Model(0, "M").Actor(brender.ActorNone, "A").End(),
			wantErr: brender.ErrUnexpectedChunk,
		},
		{
			name: "face vertex out of range",
			stream: brendertest.New().Model(0, "M").
				Vertices(mgl32.Vec3{}, mgl32.Vec3{}).
				Faces(brender.Face{V1: 0, V2: 1, V3: 2}).
				End(),
			wantErr: brender.ErrFaceVertexIndex,
		},
		{
			name: "face material out of range",
			stream: brendertest.New().Model(0, "M").
				MaterialIndex("A", "B").
				FaceMaterials(3).
				End(),
			wantErr: brender.ErrFaceMaterialIndex,
		},
		{
			name:    "end without anything",
			stream:  brendertest.New().End(),
			wantErr: brender.ErrEmptyBlock,
		},
		{
			name:    "stream ends inside block",
			stream:  brendertest.New().Model(0, "M"),
			wantErr: brender.ErrTruncatedChunk,
		},
		{
			name:    "two models in one block",
			stream:  brendertest.New().Model(0, "A").Model(0, "B").End(),
			wantErr: brender.ErrDanglingResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := brender.ReadModel(tt.stream.Reader())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadModel_ResourceTypeError(t *testing.T) {
	_, err := brender.ReadModel(brendertest.New().FileInfo(brender.FilePixelMap, 2).End().Reader())
	var rte *brender.ResourceTypeError
	if !errors.As(err, &rte) {
		t.Fatalf("got %v, want *ResourceTypeError", err)
	}
	if rte.Expected != brender.FileModel || rte.Got != brender.FilePixelMap {
		t.Errorf("expected/got = %s/%s", rte.Expected, rte.Got)
	}
}

func TestLoadModels(t *testing.T) {
	b := brendertest.New().Header(brender.FileModel)
	makeTriangleModel(b, "BODY")
	makeTriangleModel(b, "WHEEL")

	models, err := brender.LoadModels(b.Reader())
	if err != nil {
		t.Fatalf("LoadModels: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	if models[0].Name != "BODY" || models[1].Name != "WHEEL" {
		t.Errorf("names = %q, %q", models[0].Name, models[1].Name)
	}
}

func TestLoadModels_Empty(t *testing.T) {
	models, err := brender.LoadModels(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("LoadModels: %v", err)
	}
	if len(models) != 0 {
		t.Errorf("got %d models from an empty stream", len(models))
	}
}

func TestLoadModels_CorruptBlockIsReported(t *testing.T) {
	b := brendertest.New().Header(brender.FileModel)
	makeTriangleModel(b, "BODY")
	b.Chunk(0x99, nil)

	_, err := brender.LoadModels(b.Reader())
	if !errors.Is(err, brender.ErrUnknownChunk) {
		t.Errorf("got %v, want ErrUnknownChunk", err)
	}
}
