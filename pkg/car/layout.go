package car

import (
	"io/fs"
	"path"
	"strings"

	"github.com/Faultbox/carmaload/pkg/encoding"
)

// Layout names the directories and extensions of a game data tree.
type Layout struct {
	CarsDir     string `yaml:"cars_dir"`
	ModelsDir   string `yaml:"models_dir"`
	ActorsDir   string `yaml:"actors_dir"`
	MaterialDir string `yaml:"material_dir"`
	PixelMapDir string `yaml:"pixelmap_dir"`
	PaletteDir  string `yaml:"palette_dir"`

	DescriptionExt string `yaml:"description_ext"`
	ModelExt       string `yaml:"model_ext"`
	ActorExt       string `yaml:"actor_ext"`

	Palette string `yaml:"palette"`

	// IgnoreCase resolves names that differ from the files on disk only
	// in case.
	IgnoreCase bool `yaml:"ignore_case"`
}

// DefaultLayout returns the layout of the shipped game data.
func DefaultLayout() Layout {
	return Layout{
		CarsDir:        "CARS",
		ModelsDir:      "MODELS",
		ActorsDir:      "ACTORS",
		MaterialDir:    "MATERIAL",
		PixelMapDir:    "PIXELMAP",
		PaletteDir:     "REG/PALETTES",
		DescriptionExt: "ENC",
		ModelExt:       "DAT",
		ActorExt:       "ACT",
		Palette:        "DRRENDER.PAL",
		IgnoreCase:     true,
	}
}

// Resolve returns the name under which name exists in fsys. With
// ignoreCase set, every path element is matched case-insensitively when
// the exact name is missing.
func Resolve(fsys fs.FS, name string, ignoreCase bool) (string, error) {
	if _, err := fs.Stat(fsys, name); err == nil || !ignoreCase {
		return name, err
	}

	resolved := "."
	for _, part := range strings.Split(path.Clean(name), "/") {
		entries, err := fs.ReadDir(fsys, resolved)
		if err != nil {
			return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		match := ""
		want := encoding.NormalizePath(part)
		for _, e := range entries {
			if encoding.NormalizePath(e.Name()) == want {
				match = e.Name()
				break
			}
		}
		if match == "" {
			return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		resolved = path.Join(resolved, match)
	}
	return resolved, nil
}
