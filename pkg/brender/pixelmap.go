package brender

import (
	"fmt"
	"io"
)

// PixelMap is an image with its pixel data stored as Units units of
// UnitBytes bytes each.
type PixelMap struct {
	Name      string
	Type      PixelMapType
	RowBytes  uint16
	Width     uint16
	Height    uint16
	OriginX   uint16
	OriginY   uint16
	Units     uint32
	UnitBytes uint32
	Data      []byte

	// Map is a secondary pixelmap attached with ADD_MAP.
	Map *PixelMap
}

// Validate checks that the data length matches the unit layout.
func (p *PixelMap) Validate() error {
	if uint64(p.Units)*uint64(p.UnitBytes) != uint64(len(p.Data)) {
		return fmt.Errorf("%w: %q has %d units of %d bytes but %d bytes of data",
			ErrPixelDataSize, p.Name, p.Units, p.UnitBytes, len(p.Data))
	}
	if p.Map != nil {
		return p.Map.Validate()
	}
	return nil
}

// String returns a one-line summary.
func (p *PixelMap) String() string {
	return fmt.Sprintf("%s (%dx%d, origin %dx%d, %s) in %d units of %d bytes each",
		p.Name, p.Width, p.Height, p.OriginX, p.OriginY, p.Type, p.Units, p.UnitBytes)
}

func handlePixelMapChunk(c Chunk, s *Stack) error {
	switch c := c.(type) {
	case PixelMapChunk:
		s.Push(&PixelMap{
			Name:     c.Name,
			Type:     c.PixelType,
			RowBytes: c.RowBytes,
			Width:    c.Width,
			Height:   c.Height,
			OriginX:  c.OriginX,
			OriginY:  c.OriginY,
		})
	case PixelsChunk:
		p, err := TopOf[*PixelMap](s)
		if err != nil {
			return err
		}
		p.Units = c.Units
		p.UnitBytes = c.UnitBytes
		p.Data = c.Data
	case ActionChunk:
		if c.Kind != ChunkAddMap {
			return unexpected(c)
		}
		m, err := Pop[*PixelMap](s)
		if err != nil {
			return err
		}
		p, err := TopOf[*PixelMap](s)
		if err != nil {
			return err
		}
		p.Map = m
	default:
		return unexpected(c)
	}
	return nil
}

func readPixelMap(cr *ChunkReader) (*PixelMap, bool, error) {
	p, header, err := assemble[*PixelMap](cr, FilePixelMap, handlePixelMapChunk)
	if err != nil || header {
		return p, header, err
	}
	if err := p.Validate(); err != nil {
		return nil, false, err
	}
	return p, false, nil
}

// ReadPixelMap reads a single pixelmap block. A block holding only the
// file header yields an empty pixelmap.
func ReadPixelMap(r io.Reader) (*PixelMap, error) {
	p, header, err := readPixelMap(NewChunkReader(r))
	if err != nil {
		return nil, err
	}
	if header {
		return &PixelMap{}, nil
	}
	return p, nil
}
