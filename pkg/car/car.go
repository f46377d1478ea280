// Package car assembles a drivable car from its description file and the
// actor, model, material and pixelmap resources it references.
package car

import (
	"io/fs"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/carmaload/internal/logger"
	"github.com/Faultbox/carmaload/pkg/brender"
	"github.com/Faultbox/carmaload/pkg/cardesc"
)

var (
	ErrNoActor   = errors.New("no level 0 actor")
	ErrNoPalette = errors.New("palette file holds no pixelmap")
)

// Car is a fully loaded car. It is not modified after Load returns.
type Car struct {
	Name            string
	Description     *cardesc.Description
	Actors          *brender.ActorTree
	Models          map[string]*brender.Model
	Materials       map[string]*brender.Material
	Textures        map[string]*brender.PixelMap // remapped to RGBA
	Palette         *brender.PixelMap
	BaseTranslation mgl32.Vec3
}

// ModelNames returns the loaded model names in sorted order.
func (c *Car) ModelNames() []string {
	return sortedKeys(c.Models)
}

// MaterialNames returns the loaded material names in sorted order.
func (c *Car) MaterialNames() []string {
	return sortedKeys(c.Materials)
}

// TextureNames returns the loaded texture names in sorted order.
func (c *Car) TextureNames() []string {
	return sortedKeys(c.Textures)
}

// sortedKeys returns the keys of m in sorted order (nil for an empty map).
func sortedKeys[V any](m map[string]V) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Loader reads cars from a game data tree.
type Loader struct {
	FS     fs.FS
	Layout Layout
}

// NewLoader returns a Loader over fsys with the default layout.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{FS: fsys, Layout: DefaultLayout()}
}

// load is the state of one Load call.
type load struct {
	*Loader
	log  *zap.Logger
	desc string // resolved description path
	car  *Car
}

// Load reads the car whose description is at descPath. The description is
// looked up in the cars directory next to descPath's parent; every other
// resource is looked up relative to it the same way.
func (l *Loader) Load(descPath string) (*Car, error) {
	ld := &load{
		Loader: l,
		log:    logger.Named("car"),
		car: &Car{
			Models:    make(map[string]*brender.Model),
			Materials: make(map[string]*brender.Material),
			Textures:  make(map[string]*brender.PixelMap),
		},
	}
	if err := ld.run(descPath); err != nil {
		return nil, err
	}
	return ld.car, nil
}

func (ld *load) run(descPath string) error {
	lay := ld.Layout
	name, err := ld.open(PathSubst(descPath, lay.CarsDir, lay.DescriptionExt))
	if err != nil {
		return err
	}
	ld.desc = name
	ld.log.Info("opening car", zap.String("path", name))

	f, err := ld.FS.Open(name)
	if err != nil {
		return errors.Wrapf(err, "opening description %s", name)
	}
	desc, err := cardesc.Parse(f)
	f.Close()
	if err != nil {
		return errors.Wrapf(err, "parsing description %s", name)
	}
	ld.car.Name = desc.Name
	ld.car.Description = desc

	if err := ld.loadModels(desc.ModelFiles()); err != nil {
		return err
	}
	if err := ld.loadActor(desc); err != nil {
		return err
	}
	var extra []string
	for _, m := range ld.car.Actors.ModelNames() {
		if _, ok := ld.car.Models[m]; !ok {
			extra = append(extra, m)
		}
	}
	ld.log.Debug("models referenced by actor", zap.Strings("names", extra))
	if err := ld.loadModels(extra); err != nil {
		return err
	}

	if err := ld.loadMaterials(desc.AllMaterials()); err != nil {
		return err
	}
	extra = extra[:0]
	for _, m := range desc.ExtraMaterials {
		if _, ok := ld.car.Materials[m]; !ok && !slices.Contains(extra, m) {
			extra = append(extra, m)
		}
	}
	slices.Sort(extra)
	if err := ld.loadMaterials(extra); err != nil {
		return err
	}

	if err := ld.loadPalette(); err != nil {
		return err
	}
	return ld.loadTextures(desc.AllPixelMaps())
}

// open returns the resolved name of a resource file.
func (ld *load) open(name string) (string, error) {
	resolved, err := Resolve(ld.FS, name, ld.Layout.IgnoreCase)
	if err != nil {
		return "", errors.Wrapf(err, "locating %s", name)
	}
	return resolved, nil
}

// ref returns the path of a referenced file, moved into dir.
func (ld *load) ref(file, dir, ext string) (string, error) {
	return ld.open(PathSubst(sibling(ld.desc, file), dir, ext))
}

func (ld *load) loadModels(files []string) error {
	for _, file := range files {
		name, err := ld.ref(file, ld.Layout.ModelsDir, ld.Layout.ModelExt)
		if err != nil {
			return err
		}
		ld.log.Info("opening models", zap.String("path", name))
		models, err := brender.LoadModelsFile(ld.FS, name)
		if err != nil {
			return errors.Wrapf(err, "loading models")
		}
		for _, m := range models {
			ld.car.Models[m.Name] = m
		}
	}
	return nil
}

func (ld *load) loadActor(desc *cardesc.Description) error {
	file, ok := desc.ActorFile(0)
	if !ok {
		return errors.Wrapf(ErrNoActor, "description %s", ld.desc)
	}
	name, err := ld.ref(file, ld.Layout.ActorsDir, ld.Layout.ActorExt)
	if err != nil {
		return err
	}
	ld.log.Info("opening actor", zap.String("path", name))
	trees, err := brender.LoadActorsFile(ld.FS, name)
	if err != nil {
		return errors.Wrapf(err, "loading actor")
	}
	if len(trees) == 0 {
		return errors.Wrapf(ErrNoActor, "actor file %s", name)
	}
	ld.car.Actors = trees[0]
	return nil
}

func (ld *load) loadMaterials(files []string) error {
	for _, file := range files {
		name, err := ld.ref(file, ld.Layout.MaterialDir, "")
		if err != nil {
			return err
		}
		ld.log.Info("opening material", zap.String("path", name))
		mats, err := brender.LoadMaterialsFile(ld.FS, name)
		if err != nil {
			return errors.Wrapf(err, "loading materials")
		}
		for _, m := range mats {
			ld.car.Materials[m.Name] = m
		}
	}
	return nil
}

func (ld *load) loadPalette() error {
	name, err := ld.ref(ld.Layout.Palette, ld.Layout.PaletteDir, "")
	if err != nil {
		return err
	}
	ld.log.Info("opening palette", zap.String("path", name))
	pals, err := brender.LoadPixelMapsFile(ld.FS, name)
	if err != nil {
		return errors.Wrapf(err, "loading palette")
	}
	if len(pals) == 0 {
		return errors.Wrapf(ErrNoPalette, "palette %s", name)
	}
	ld.car.Palette = pals[0]
	return nil
}

func (ld *load) loadTextures(files []string) error {
	for _, file := range files {
		name, err := ld.ref(file, ld.Layout.PixelMapDir, "")
		if err != nil {
			return err
		}
		ld.log.Info("opening pixelmap", zap.String("path", name))
		pms, err := brender.LoadPixelMapsFile(ld.FS, name)
		if err != nil {
			return errors.Wrapf(err, "loading pixelmaps")
		}
		for _, pm := range pms {
			rgba, err := brender.Remap(pm, ld.car.Palette)
			if err != nil {
				return errors.Wrapf(err, "remapping %s in %s", pm.Name, name)
			}
			ld.car.Textures[rgba.Name] = rgba
		}
	}
	return nil
}
