package brender

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Material holds surface shading parameters and the names of the
// pixelmaps and tables it draws from.
type Material struct {
	Name         string
	Colour       mgl32.Vec3
	Opacity      uint8
	Ka, Kd, Ks   float32
	Power        float32
	Flags        uint16
	MapTransform [3]mgl32.Vec2
	IndexBase    uint8
	IndexRange   uint8

	ColourMap  string // pixelmap with the texture
	IndexShade string // shade table
	IndexBlend string
	Screendoor string
}

// String returns a one-line summary.
func (m *Material) String() string {
	return fmt.Sprintf("%s, pixelmap %q, shade table %q", m.Name, m.ColourMap, m.IndexShade)
}

func handleMaterialChunk(c Chunk, s *Stack) error {
	switch c := c.(type) {
	case MaterialChunk:
		s.Push(&Material{
			Name:         c.Name,
			Colour:       c.Colour,
			Opacity:      c.Opacity,
			Ka:           c.Ka,
			Kd:           c.Kd,
			Ks:           c.Ks,
			Power:        c.Power,
			Flags:        c.Flags,
			MapTransform: c.MapTransform,
			IndexBase:    c.IndexBase,
			IndexRange:   c.IndexRange,
		})
	case NameRefChunk:
		m, err := TopOf[*Material](s)
		if err != nil {
			return err
		}
		switch c.Kind {
		case ChunkColourMapRef:
			m.ColourMap = c.Name
		case ChunkIndexShadeRef:
			m.IndexShade = c.Name
		case ChunkIndexBlendRef:
			m.IndexBlend = c.Name
		case ChunkScreendoorRef:
			m.Screendoor = c.Name
		default:
			return unexpected(c)
		}
	default:
		return unexpected(c)
	}
	return nil
}

func readMaterial(cr *ChunkReader) (*Material, bool, error) {
	return assemble[*Material](cr, FileMaterial, handleMaterialChunk)
}

// ReadMaterial reads a single material block. A block holding only the
// file header yields an empty material.
func ReadMaterial(r io.Reader) (*Material, error) {
	m, header, err := readMaterial(NewChunkReader(r))
	if err != nil {
		return nil, err
	}
	if header {
		return &Material{}, nil
	}
	return m, nil
}
