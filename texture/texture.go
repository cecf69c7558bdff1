// Package texture provides 2D color sources for sr3d shaders.
//
// A Texture stores 8-bit texels in B, G, R, A order with the origin at the
// bottom-left texel, the layout sr3d.Tex2D expects. Textures are created
// from decoded images (PNG, JPEG, BMP, TIFF, WebP) or generated in code.
package texture

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Common errors for texture operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")

	// ErrUnsupportedFormat is returned when image data cannot be decoded.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("texture: empty data")
)

// bytesPerTexel is the size of one BGRA8 texel.
const bytesPerTexel = 4

// Texture is a BGRA8 texel buffer with a bottom-left origin.
//
// Thread safety: Texture is safe for concurrent reads. Set and Fill
// require external synchronization.
type Texture struct {
	data   []byte
	width  int
	height int
}

// New creates a texture cleared to transparent black.
func New(width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Texture{
		data:   make([]byte, width*height*bytesPerTexel),
		width:  width,
		height: height,
	}, nil
}

// MustNew is like New but panics on invalid dimensions.
func MustNew(width, height int) *Texture {
	t, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return t
}

// Width returns the width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in texels.
func (t *Texture) Height() int { return t.height }

// Format returns the texel layout of Data.
func (t *Texture) Format() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

// Data returns the raw texel data, bottom row first.
func (t *Texture) Data() []byte { return t.data }

// Texel returns the texel at (x, y) in B, G, R, A order.
// Coordinates outside the texture are clamped to the edge.
func (t *Texture) Texel(x, y int) [4]uint8 {
	i := t.offset(clamp(x, 0, t.width-1), clamp(y, 0, t.height-1))
	return [4]uint8{t.data[i], t.data[i+1], t.data[i+2], t.data[i+3]}
}

// SetRGBA writes the texel at (x, y). Writes outside the texture are ignored.
func (t *Texture) SetRGBA(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	i := t.offset(x, y)
	t.data[i+0] = b
	t.data[i+1] = g
	t.data[i+2] = r
	t.data[i+3] = a
}

// RGBA returns the texel at (x, y) as separate channels.
func (t *Texture) RGBA(x, y int) (r, g, b, a uint8) {
	c := t.Texel(x, y)
	return c[2], c[1], c[0], c[3]
}

// Fill sets every texel to the given color.
func (t *Texture) Fill(r, g, b, a uint8) {
	for i := 0; i < len(t.data); i += bytesPerTexel {
		t.data[i+0] = b
		t.data[i+1] = g
		t.data[i+2] = r
		t.data[i+3] = a
	}
}

// Clone returns a deep copy of the texture.
func (t *Texture) Clone() *Texture {
	data := make([]byte, len(t.data))
	copy(data, t.data)
	return &Texture{data: data, width: t.width, height: t.height}
}

func (t *Texture) offset(x, y int) int {
	return (y*t.width + x) * bytesPerTexel
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
