package brender

import (
	"fmt"
	"math"
)

// Remap converts an 8-bit indexed pixelmap to 32-bit RGBA using palette.
//
// Palette entries are stored as (X, R, G, B) where X is inverted opacity.
// Index 0 is treated as opaque black.
func Remap(src, palette *PixelMap) (*PixelMap, error) {
	if src.UnitBytes != 1 {
		return nil, fmt.Errorf("%w: %q has %d bytes per unit", ErrNotIndexed, src.Name, src.UnitBytes)
	}
	rowBytes := uint32(src.Width) * 4
	if rowBytes > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %q is %d pixels wide", ErrRowBytes, src.Name, src.Width)
	}
	if palette.UnitBytes < 4 {
		return nil, fmt.Errorf("%w: palette %q has %d bytes per entry", ErrPaletteIndex, palette.Name, palette.UnitBytes)
	}

	out := make([]byte, len(src.Data)*4)
	for i, idx := range src.Data {
		o := out[i*4 : i*4+4]
		if idx == 0 {
			o[0], o[1], o[2], o[3] = 0, 0, 0, 255
			continue
		}
		base := int(idx) * int(palette.UnitBytes)
		if base+3 >= len(palette.Data) {
			return nil, fmt.Errorf("%w: index %d at pixel %d, palette %q has %d entries",
				ErrPaletteIndex, idx, i, palette.Name, palette.Units)
		}
		o[0] = palette.Data[base+1]
		o[1] = palette.Data[base+2]
		o[2] = palette.Data[base+3]
		o[3] = 255 - palette.Data[base]
	}

	return &PixelMap{
		Name:      src.Name,
		Type:      PixelRGBA888,
		RowBytes:  uint16(rowBytes),
		Width:     src.Width,
		Height:    src.Height,
		OriginX:   src.OriginX,
		OriginY:   src.OriginY,
		Units:     src.Units,
		UnitBytes: 4,
		Data:      out,
	}, nil
}
