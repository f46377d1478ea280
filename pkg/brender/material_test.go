package brender_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carmaload/pkg/brender"
	"github.com/Faultbox/carmaload/pkg/brender/brendertest"
)

func TestLoadMaterials(t *testing.T) {
	stream := brendertest.New().Header(brender.FileMaterial).
		Material("RED.MAT", mgl32.Vec3{1, 0, 0}).
		NameRef(brender.ChunkColourMapRef, "RED.PIX").
		NameRef(brender.ChunkIndexShadeRef, "SHADE.TAB").
		End().
		Material("GLASS.MAT", mgl32.Vec3{0, 0, 1}).
		NameRef(brender.ChunkIndexBlendRef, "BLEND.TAB").
		NameRef(brender.ChunkScreendoorRef, "DOOR.TAB").
		End()

	mats, err := brender.LoadMaterials(stream.Reader())
	if err != nil {
		t.Fatalf("LoadMaterials: %v", err)
	}
	if len(mats) != 2 {
		t.Fatalf("got %d materials, want 2", len(mats))
	}

	red := mats[0]
	if red.Name != "RED.MAT" || red.ColourMap != "RED.PIX" || red.IndexShade != "SHADE.TAB" {
		t.Errorf("red = %+v", red)
	}
	if red.Colour != (mgl32.Vec3{1, 0, 0}) || red.Opacity != 255 || red.Power != 20 {
		t.Errorf("red shading = %v %d %v", red.Colour, red.Opacity, red.Power)
	}
	if red.MapTransform[1] != (mgl32.Vec2{0, 1}) {
		t.Errorf("map transform = %v", red.MapTransform)
	}

	glass := mats[1]
	if glass.IndexBlend != "BLEND.TAB" || glass.Screendoor != "DOOR.TAB" || glass.ColourMap != "" {
		t.Errorf("glass = %+v", glass)
	}
}

func TestReadMaterial_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stream  *brendertest.Builder
		wantErr error
	}{
		{
			name:    "reference before material",
			stream:  brendertest.New().NameRef(brender.ChunkColourMapRef, "X.PIX").End(),
			wantErr: brender.ErrStackEmpty,
		},
		{
			name:    "actor reference in material",
			stream:  brendertest.New().Material("M", mgl32.Vec3{}).NameRef(brender.ChunkActorModel, "X").End(),
			wantErr: brender.ErrUnexpectedChunk,
		},
		{
			name:    "pixelmap file",
			stream:  brendertest.New().Header(brender.FilePixelMap),
			wantErr: brender.ErrResourceTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := brender.ReadMaterial(tt.stream.Reader())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
