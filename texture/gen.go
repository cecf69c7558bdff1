package texture

import (
	"fmt"
	"image/color"
)

// Solid returns a 1x1 texture of a single color.
func Solid(c color.NRGBA) *Texture {
	t := MustNew(1, 1)
	t.Fill(c.R, c.G, c.B, c.A)
	return t
}

// Bands returns a one-row ramp of width texels split into equal bands,
// one per color, left to right. It suits the Ramp shader's toon look.
func Bands(width int, colors ...color.NRGBA) (*Texture, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("texture: bands: no colors")
	}
	t, err := New(width, 1)
	if err != nil {
		return nil, err
	}
	for x := range width {
		c := colors[x*len(colors)/width]
		t.SetRGBA(x, 0, c.R, c.G, c.B, c.A)
	}
	return t, nil
}

// Gradient returns a one-row ramp of width texels blending linearly from
// one color to another.
func Gradient(width int, from, to color.NRGBA) (*Texture, error) {
	t, err := New(width, 1)
	if err != nil {
		return nil, err
	}
	for x := range width {
		f := 0.0
		if width > 1 {
			f = float64(x) / float64(width-1)
		}
		t.SetRGBA(x, 0, lerp8(from.R, to.R, f), lerp8(from.G, to.G, f), lerp8(from.B, to.B, f), lerp8(from.A, to.A, f))
	}
	return t, nil
}

// Checker returns a size x size texture of cells x cells alternating
// squares. The bottom-left cell has color a.
func Checker(size, cells int, a, b color.NRGBA) (*Texture, error) {
	if cells <= 0 {
		return nil, fmt.Errorf("%w: %d checker cells", ErrInvalidDimensions, cells)
	}
	t, err := New(size, size)
	if err != nil {
		return nil, err
	}
	for y := range size {
		for x := range size {
			c := a
			if (x*cells/size+y*cells/size)%2 == 1 {
				c = b
			}
			t.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return t, nil
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}
