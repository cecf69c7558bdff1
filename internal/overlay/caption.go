// Package overlay draws text captions onto rendered images.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Captioner draws single-line labels in the bottom-left corner of an
// image using the Go Regular font.
type Captioner struct {
	face   font.Face
	fg     image.Image
	bg     image.Image
	margin int
}

// Option configures a Captioner.
type Option func(*Captioner)

// WithColor sets the text color. The default is opaque white.
func WithColor(c color.Color) Option {
	return func(cp *Captioner) { cp.fg = image.NewUniform(c) }
}

// WithBackground sets the color of the band behind the text. A nil
// color disables the band. The default is translucent black.
func WithBackground(c color.Color) Option {
	return func(cp *Captioner) {
		if c == nil {
			cp.bg = nil
			return
		}
		cp.bg = image.NewUniform(c)
	}
}

// WithMargin sets the padding around the text in pixels.
func WithMargin(px int) Option {
	return func(cp *Captioner) { cp.margin = max(px, 0) }
}

// New returns a Captioner drawing text at size pixels per em.
func New(size float64, opts ...Option) (*Captioner, error) {
	if size <= 0 {
		return nil, fmt.Errorf("overlay: invalid font size %v", size)
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: create face: %w", err)
	}

	c := &Captioner{
		face:   face,
		fg:     image.White,
		bg:     image.NewUniform(color.NRGBA{A: 160}),
		margin: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Measure returns the size of the box Draw would fill for text.
func (c *Captioner) Measure(text string) image.Point {
	if text == "" {
		return image.Point{}
	}
	m := c.face.Metrics()
	return image.Point{
		X: font.MeasureString(c.face, text).Ceil() + 2*c.margin,
		Y: m.Ascent.Ceil() + m.Descent.Ceil() + 2*c.margin,
	}
}

// Draw writes text into the bottom-left corner of dst and returns the
// rectangle it covered, clipped to dst. Empty text draws nothing.
func (c *Captioner) Draw(dst draw.Image, text string) image.Rectangle {
	size := c.Measure(text)
	if size == (image.Point{}) {
		return image.Rectangle{}
	}
	b := dst.Bounds()
	box := image.Rect(b.Min.X, b.Max.Y-size.Y, b.Min.X+size.X, b.Max.Y).Intersect(b)
	if box.Empty() {
		return box
	}
	if c.bg != nil {
		draw.Draw(dst, box, c.bg, image.Point{}, draw.Over)
	}

	d := font.Drawer{
		Dst:  dst,
		Src:  c.fg,
		Face: c.face,
		Dot:  fixed.P(b.Min.X+c.margin, b.Max.Y-c.margin-c.face.Metrics().Descent.Ceil()),
	}
	d.DrawString(text)
	return box
}

// Close releases the font face.
func (c *Captioner) Close() error {
	return c.face.Close()
}
