package car_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carmaload/pkg/brender"
	"github.com/Faultbox/carmaload/pkg/brender/brendertest"
	"github.com/Faultbox/carmaload/pkg/car"
	"github.com/Faultbox/carmaload/pkg/cardesc"
)

// eagleDescription lists one model file, two materials (one detail level
// each), one pixelmap and an extra material after the mechanics.
const eagleDescription = `EAGLE
START OF DRIVABLE STUFF
0,0.2,0
80,-80
0,0.2,0,55
none,none,none,none
END OF DRIVABLE STUFF
1,2,3
stealworthy
0
0
0
0
0
0
GRID.PIX
1
EAGLE.PIX
0
1
EAGLE.PIX
0
1
EAGLE.MAT
0
0
1
EAGLE.DAT
1
0,EAGLE.ACT
none
0
-1
-1
-1
-1
-1,-1,-1,-1
-1,-1,-1,-1
0.3
0.3
START OF FUNK
END OF FUNK
START OF GROOVE
END OF GROOVE
0.7
0.05,0.3
0.05
0.05
0
0
0
0.7
0.05,0.3
0.05
0.05
0
0
0
0.7
0.05,0.3
0.05
0.05
0
0
0
START OF MECHANICS STUFF version 4
-1,0,1
1,0,1
-1,0,-1
1,0,-1
0,0,0
-1,0,-1
1,1,1
0
0.5
0.025,0.025
0.09
0.5
1.5
1
79,80
0.4,0.2,0.8
2
50
1
1
0.05,0.05
6
200
4
END OF MECHANICS STUFF
1
GLASS.MAT
`

func palette() []byte {
	data := make([]byte, 256*4)
	for i := 0; i < 256; i++ {
		data[i*4+1] = byte(i)
		data[i*4+2] = byte(i)
		data[i*4+3] = byte(i)
	}
	return brendertest.New().Header(brender.FilePixelMap).
		PixelMap(brender.PixelRGBX888, 1, 256, "DRRENDER.PAL").
		Pixels(256, 4, data).
		End().
		Bytes()
}

func triangle(b *brendertest.Builder, name string, materials ...string) *brendertest.Builder {
	b.Model(0, name)
	if len(materials) > 0 {
		b.MaterialIndex(materials...)
		b.FaceMaterials(1)
	}
	return b.Vertices(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}).
		UVs(mgl32.Vec2{0, 0}, mgl32.Vec2{0, 1}, mgl32.Vec2{1, 1}).
		Faces(brender.Face{V1: 0, V2: 1, V3: 2}).
		End()
}

// eagleFS is a data tree with mixed-case names. WHEEL is referenced only
// from the actor file.
func eagleFS() fstest.MapFS {
	actor := brendertest.New().Header(brender.FileActor).
		Actor(brender.ActorNone, "EAGLE").
		Actor(brender.ActorModel, "BODY").
		NameRef(brender.ChunkActorModel, "EAGLE").
		Action(brender.ChunkActorAddChild).
		Actor(brender.ActorModel, "WHEEL").
		NameRef(brender.ChunkActorModel, "WHEEL").
		Translation(mgl32.Vec3{1, 0, 0}).
		Action(brender.ChunkActorTransform).
		Action(brender.ChunkActorAddChild).
		End()

	return fstest.MapFS{
		"DATA/CARS/EAGLE.ENC":            {Data: []byte(eagleDescription)},
		"DATA/MODELS/EAGLE.DAT":          {Data: triangle(brendertest.New().Header(brender.FileModel), "EAGLE", "EAGLE.MAT").Bytes()},
		"DATA/MODELS/wheel.dat":          {Data: triangle(brendertest.New(), "WHEEL", "GLASS.MAT").Bytes()},
		"DATA/ACTORS/EAGLE.ACT":          {Data: actor.Bytes()},
		"DATA/MATERIAL/EAGLE.MAT":        {Data: brendertest.New().Material("EAGLE.MAT", mgl32.Vec3{1, 0, 0}).NameRef(brender.ChunkColourMapRef, "EAGLE.PIX").End().Bytes()},
		"DATA/MATERIAL/GLASS.MAT":        {Data: brendertest.New().Material("GLASS.MAT", mgl32.Vec3{0, 0, 1}).End().Bytes()},
		"DATA/Reg/Palettes/DRRENDER.PAL": {Data: palette()},
		"DATA/PIXELMAP/EAGLE.PIX":        {Data: brendertest.New().IndexedPixelMap("EAGLE.PIX", 2, 1, []byte{0, 9}).Bytes()},
	}
}

func TestLoad(t *testing.T) {
	c, err := car.NewLoader(eagleFS()).Load("DATA/CARS/EAGLE")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Name != "EAGLE" || c.Description.Mechanics.Version != 4 {
		t.Errorf("car = %s", c.Description)
	}
	if got := strings.Join(c.ModelNames(), ","); got != "EAGLE,WHEEL" {
		t.Errorf("models = %s", got)
	}
	if got := strings.Join(c.MaterialNames(), ","); got != "EAGLE.MAT,GLASS.MAT" {
		t.Errorf("materials = %s", got)
	}
	if got := strings.Join(c.TextureNames(), ","); got != "EAGLE.PIX" {
		t.Errorf("textures = %s", got)
	}
	if c.Actors.RootNode().Name != "EAGLE" || len(c.Actors.Nodes) != 3 {
		t.Errorf("actors = %+v", c.Actors.Nodes)
	}
	if c.Palette == nil || c.Palette.Name != "DRRENDER.PAL" {
		t.Errorf("palette = %v", c.Palette)
	}

	tex := c.Textures["EAGLE.PIX"]
	want := []byte{0, 0, 0, 255, 9, 9, 9, 255}
	if tex.UnitBytes != 4 || !bytes.Equal(tex.Data, want) {
		t.Errorf("texture data = %v, want %v", tex.Data, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fsys fstest.MapFS, l *car.Loader)
		wantErr error
	}{
		{
			name:    "case sensitive lookup",
			mutate:  func(_ fstest.MapFS, l *car.Loader) { l.Layout.IgnoreCase = false },
			wantErr: fs.ErrNotExist,
		},
		{
			name:    "missing description",
			mutate:  func(fsys fstest.MapFS, _ *car.Loader) { delete(fsys, "DATA/CARS/EAGLE.ENC") },
			wantErr: fs.ErrNotExist,
		},
		{
			name: "bad description",
			mutate: func(fsys fstest.MapFS, _ *car.Loader) {
				fsys["DATA/CARS/EAGLE.ENC"] = &fstest.MapFile{
					Data: []byte(strings.Replace(eagleDescription, "version 4", "version 9", 1)),
				}
			},
			wantErr: cardesc.ErrUnsupportedVersion,
		},
		{
			name: "corrupt model",
			mutate: func(fsys fstest.MapFS, _ *car.Loader) {
				fsys["DATA/MODELS/EAGLE.DAT"] = &fstest.MapFile{Data: []byte{0, 0, 0, 0x36, 0, 0}}
			},
			wantErr: brender.ErrTruncatedChunk,
		},
		{
			name: "actor file without actors",
			mutate: func(fsys fstest.MapFS, _ *car.Loader) {
				fsys["DATA/ACTORS/EAGLE.ACT"] = &fstest.MapFile{Data: brendertest.New().Header(brender.FileActor).Bytes()}
			},
			wantErr: car.ErrNoActor,
		},
		{
			name: "empty palette",
			mutate: func(fsys fstest.MapFS, _ *car.Loader) {
				fsys["DATA/Reg/Palettes/DRRENDER.PAL"] = &fstest.MapFile{Data: []byte{}}
			},
			wantErr: car.ErrNoPalette,
		},
		{
			name: "texture not indexed",
			mutate: func(fsys fstest.MapFS, _ *car.Loader) {
				fsys["DATA/PIXELMAP/EAGLE.PIX"] = &fstest.MapFile{Data: brendertest.New().
					PixelMap(brender.PixelRGBA888, 1, 1, "EAGLE.PIX").Pixels(1, 4, []byte{1, 2, 3, 4}).End().Bytes()}
			},
			wantErr: brender.ErrNotIndexed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := eagleFS()
			l := car.NewLoader(fsys)
			tt.mutate(fsys, l)

			c, err := l.Load("DATA/CARS/EAGLE.ENC")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if c != nil {
				t.Error("failed load returned a car")
			}
		})
	}
}

func TestCar_Dump(t *testing.T) {
	c, err := car.NewLoader(eagleFS()).Load("DATA/CARS/EAGLE.ENC")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var buf bytes.Buffer
	if err := c.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Car EAGLE\n",
		"  WHEEL [model] model=WHEEL",
		"Actor WHEEL at (1, 0, 0)\n",
		"Texture EAGLE.PIX:",
		"... Material GLASS.MAT\n",
		"Material EAGLE.MAT:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	c.DumpDescription(&buf)
	if !strings.Contains(buf.String(), "TopGearAcceleration: (float32) 4") {
		t.Errorf("description dump:\n%s", buf.String())
	}
}

func TestCar_DumpDescription(t *testing.T) {
	c := &car.Car{Description: &cardesc.Description{
		Name:      "X",
		Models:    []string{"X.DAT"},
		Mechanics: cardesc.Mechanics{Version: 3, Mass: 1.5},
	}}

	var buf bytes.Buffer
	c.DumpDescription(&buf)
	out := buf.String()
	for _, want := range []string{
		`Name: (string) (len=1) "X"`,
		"Version: (int) 3",
		"Mass: (float32) 1.5",
		`(string) (len=5) "X.DAT"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("description dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "mechanics v3") {
		t.Errorf("description dump used the one-line summary:\n%s", out)
	}
}

func TestCar_GLTFDocument(t *testing.T) {
	c, err := car.NewLoader(eagleFS()).Load("DATA/CARS/EAGLE.ENC")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	doc, err := c.GLTFDocument()
	if err != nil {
		t.Fatalf("GLTFDocument: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Meshes) != 2 || len(doc.Materials) != 2 {
		t.Fatalf("nodes/meshes/materials = %d/%d/%d", len(doc.Nodes), len(doc.Meshes), len(doc.Materials))
	}
	if len(doc.Images) != 1 || len(doc.Textures) != 1 {
		t.Errorf("images/textures = %d/%d", len(doc.Images), len(doc.Textures))
	}
	if len(doc.Scenes[0].Nodes) != 1 || doc.Nodes[doc.Scenes[0].Nodes[0]].Name != "EAGLE" {
		t.Errorf("scene roots = %v", doc.Scenes[0].Nodes)
	}
	if got := len(doc.Nodes[0].Children); got != 2 {
		t.Errorf("root children = %d", got)
	}
	wheel := doc.Nodes[2]
	if wheel.Name != "WHEEL" || wheel.Mesh == nil || wheel.Matrix[12] != 1 {
		t.Errorf("wheel node = %+v", wheel)
	}

	var bin bytes.Buffer
	if err := c.ExportGLTF(&bin, true); err != nil {
		t.Fatalf("ExportGLTF: %v", err)
	}
	if !bytes.HasPrefix(bin.Bytes(), []byte("glTF")) {
		t.Errorf("binary export starts with %q", bin.Bytes()[:4])
	}

	var js bytes.Buffer
	if err := c.ExportGLTF(&js, false); err != nil {
		t.Fatalf("ExportGLTF: %v", err)
	}
	if !strings.Contains(js.String(), `"name":"EAGLE.MAT"`) {
		t.Errorf("json export missing material: %s", js.String())
	}
}

func TestCar_GLTFDocument_NoActors(t *testing.T) {
	_, err := (&car.Car{Name: "EMPTY"}).GLTFDocument()
	if !errors.Is(err, car.ErrNoActor) {
		t.Errorf("got %v, want ErrNoActor", err)
	}
}

func ExamplePathSubst() {
	fmt.Println(car.PathSubst("/old/file.ext", "path", "ext2"))
	fmt.Println(car.PathSubst("/old/file.ext", "path", ""))
	// Output:
	// /path/file.ext2
	// /path/file.ext
}
