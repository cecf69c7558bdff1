package sr3d

import "github.com/go-gl/mathgl/mgl64"

// ColorSource is a 2D grid of 8-bit texels that shaders sample from.
//
// Texel returns the channels in the source's native order, which is
// B, G, R, A. Coordinates are in [0, Width) x [0, Height) with the origin
// at the bottom-left texel.
type ColorSource interface {
	Width() int
	Height() int
	Texel(x, y int) [4]uint8
}

// Tex2D samples src at normalized coordinate uv with nearest filtering.
// Coordinates outside [0, 1] are clamped to the edge texel. The result
// is reordered to R, G, B, A and scaled to [0, 1].
func Tex2D(src ColorSource, uv mgl64.Vec2) mgl64.Vec4 {
	if src == nil {
		panic("sr3d: Tex2D called with a nil color source")
	}
	w, h := src.Width(), src.Height()
	x := clampInt(int(uv[0]*float64(w)), 0, w-1)
	y := clampInt(int(uv[1]*float64(h)), 0, h-1)

	c := src.Texel(x, y)
	return mgl64.Vec4{
		float64(c[2]) / 255,
		float64(c[1]) / 255,
		float64(c[0]) / 255,
		float64(c[3]) / 255,
	}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return mgl64.Clamp(x, lo, hi)
}

// Saturate clamps x to [0, 1].
func Saturate(x float64) float64 {
	return mgl64.Clamp(x, 0, 1)
}

// SaturateVec3 clamps every component of v to [0, 1].
func SaturateVec3(v mgl64.Vec3) mgl64.Vec3 {
	for i := range v {
		v[i] = Saturate(v[i])
	}
	return v
}

// SaturateVec4 clamps every component of v to [0, 1].
func SaturateVec4(v mgl64.Vec4) mgl64.Vec4 {
	for i := range v {
		v[i] = Saturate(v[i])
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
