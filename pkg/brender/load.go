package brender

import (
	"fmt"
	"io"
	"io/fs"
)

// loadMany reads blocks until the stream ends on a block boundary. Header
// blocks are skipped. Decode errors inside a block are returned, never
// treated as the end.
func loadMany[T any](r io.Reader, read func(cr *ChunkReader) (T, bool, error)) ([]T, error) {
	cr := NewChunkReader(r)
	var out []T
	for {
		eof, err := cr.AtEOF()
		if err != nil {
			return nil, err
		}
		if eof {
			return out, nil
		}
		v, header, err := read(cr)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", len(out), err)
		}
		if !header {
			out = append(out, v)
		}
	}
}

// LoadModels reads every model in a model file.
func LoadModels(r io.Reader) ([]*Model, error) {
	return loadMany(r, readModel)
}

// LoadActors reads every actor tree in an actor file.
func LoadActors(r io.Reader) ([]*ActorTree, error) {
	return loadMany(r, readActor)
}

// LoadMaterials reads every material in a material file.
func LoadMaterials(r io.Reader) ([]*Material, error) {
	return loadMany(r, readMaterial)
}

// LoadPixelMaps reads every pixelmap in a pixelmap file.
func LoadPixelMaps(r io.Reader) ([]*PixelMap, error) {
	return loadMany(r, readPixelMap)
}

// LoadModelsFile reads every model in the named file of fsys.
func LoadModelsFile(fsys fs.FS, name string) ([]*Model, error) {
	return loadFile(fsys, name, LoadModels)
}

// LoadActorsFile reads every actor tree in the named file of fsys.
func LoadActorsFile(fsys fs.FS, name string) ([]*ActorTree, error) {
	return loadFile(fsys, name, LoadActors)
}

// LoadMaterialsFile reads every material in the named file of fsys.
func LoadMaterialsFile(fsys fs.FS, name string) ([]*Material, error) {
	return loadFile(fsys, name, LoadMaterials)
}

// LoadPixelMapsFile reads every pixelmap in the named file of fsys.
func LoadPixelMapsFile(fsys fs.FS, name string) ([]*PixelMap, error) {
	return loadFile(fsys, name, LoadPixelMaps)
}

func loadFile[T any](fsys fs.FS, name string, load func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return v, nil
}
