package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/sr3d"
)

// Load reads and decodes an image file into a texture.
// Supported formats: PNG, JPEG, BMP, TIFF, WebP.
func Load(path string) (*Texture, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("texture: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := Decode(f)
	if err != nil {
		return nil, err
	}
	sr3d.Logger().Debug("texture: loaded", "path", path, "width", t.width, "height", t.height)
	return t, nil
}

// LoadFromBytes decodes an in-memory image into a texture.
func LoadFromBytes(data []byte) (*Texture, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r into a texture, auto-detecting the format.
func Decode(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	return FromImage(img)
}

// FromImage converts img to a texture. Image row 0 is the top row, so
// rows are flipped to give the texture its bottom-left origin.
func FromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	t, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	for y := range t.height {
		src := nrgba.Pix[y*nrgba.Stride:]
		dst := t.data[(t.height-1-y)*t.width*bytesPerTexel:]
		for x := range t.width {
			i := x * bytesPerTexel
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return t, nil
}

// ToImage converts the texture to an image with the origin at the top-left.
func (t *Texture) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	for y := range t.height {
		src := t.data[(t.height-1-y)*t.width*bytesPerTexel:]
		dst := img.Pix[y*img.Stride:]
		for x := range t.width {
			i := x * bytesPerTexel
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return img
}

// InterpolationMode selects the filter used by Resize.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest texel (no interpolation).
	// Keeps hard band edges in toon ramps.
	InterpNearest InterpolationMode = iota

	// InterpBilinear performs linear interpolation between 4 neighboring texels.
	InterpBilinear

	// InterpBicubic performs Catmull-Rom interpolation over a 4x4 neighborhood.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

func (m InterpolationMode) interpolator() draw.Interpolator {
	switch m {
	case InterpBilinear:
		return draw.BiLinear
	case InterpBicubic:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// Resize returns a copy of t scaled to width x height.
func Resize(t *Texture, width, height int, mode InterpolationMode) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	src := t.ToImage()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	mode.interpolator().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return FromImage(dst)
}
