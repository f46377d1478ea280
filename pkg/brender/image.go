package brender

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
)

// ErrNotRGBA is returned when converting a pixelmap that has not been remapped.
var ErrNotRGBA = errors.New("pixelmap is not 32-bit RGBA")

// Image converts an RGBA pixelmap to an image. Pixels are copied.
func (p *PixelMap) Image() (*image.NRGBA, error) {
	if p.UnitBytes != 4 {
		return nil, fmt.Errorf("%w: %q has %d bytes per unit", ErrNotRGBA, p.Name, p.UnitBytes)
	}
	w, h := int(p.Width), int(p.Height)
	if len(p.Data) < w*h*4 {
		return nil, fmt.Errorf("%w: %q is %dx%d but holds %d pixels", ErrPixelDataSize, p.Name, w, h, len(p.Data)/4)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, p.Data)
	return img, nil
}

// WritePNG encodes an RGBA pixelmap as PNG.
func WritePNG(w io.Writer, p *PixelMap) error {
	img, err := p.Image()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
