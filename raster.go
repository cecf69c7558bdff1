package sr3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"
)

// degenerateArea is the doubled screen-space area below which a
// triangle covers no pixels.
const degenerateArea = 1e-2

// Barycentric returns the weights of p with respect to the screen-space
// triangle (a, b, c). Only x and y are used. For a triangle whose
// doubled area is below 1e-2 it returns (-1, 1, 1), which fails every
// containment test.
func Barycentric(a, b, c, p mgl64.Vec2) mgl64.Vec3 {
	u := mgl64.Vec3{b[0] - a[0], c[0] - a[0], a[0] - p[0]}
	v := mgl64.Vec3{b[1] - a[1], c[1] - a[1], a[1] - p[1]}
	t := u.Cross(v)
	if math.Abs(t[2]) < degenerateArea {
		return mgl64.Vec3{-1, 1, 1}
	}
	return mgl64.Vec3{1 - (t[0]+t[1])/t[2], t[0] / t[2], t[1] / t[2]}
}

// signedArea returns twice the signed area of the screen-space triangle.
// It is positive for counter-clockwise winding with y up.
func signedArea(a, b, c mgl64.Vec3) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
}

// bbox is an inclusive pixel rectangle.
type bbox struct {
	minX, minY, maxX, maxY int
}

func (b bbox) empty() bool { return b.minX > b.maxX || b.minY > b.maxY }

// screenBounds returns the bounding box of the triangle clamped to a
// width x height target.
func screenBounds(s [3]mgl64.Vec3, width, height int) bbox {
	lo := mgl64.Vec2{s[0][0], s[0][1]}
	hi := lo
	for _, v := range s[1:] {
		lo[0], hi[0] = math.Min(lo[0], v[0]), math.Max(hi[0], v[0])
		lo[1], hi[1] = math.Min(lo[1], v[1]), math.Max(hi[1], v[1])
	}
	return bbox{
		minX: int(math.Max(lo[0], 0)),
		minY: int(math.Max(lo[1], 0)),
		maxX: int(math.Min(hi[0], float64(width-1))),
		maxY: int(math.Min(hi[1], float64(height-1))),
	}
}

// rasterizer holds the per-pass state of the raster stage.
type rasterizer struct {
	opts     *options
	target   ColorSink
	depth    *DepthBuffer
	shader   Shader
	varyings *Slots
	vary     []mgl64.Vec4
	stats    *Stats
}

// culled reports whether the cull mode removes a triangle with the
// given doubled signed area.
func (r *rasterizer) culled(area float64) bool {
	if r.opts.cullMode == gputypes.CullModeNone {
		return false
	}
	ccw := area > 0
	front := ccw == (r.opts.frontFace == gputypes.FrontFaceCCW)
	switch r.opts.cullMode {
	case gputypes.CullModeFront:
		return front
	case gputypes.CullModeBack:
		return !front
	}
	return false
}

// draw scans the triangle's bounding box row by row and shades every
// covered pixel that survives the depth test.
func (r *rasterizer) draw(t *triangle) {
	s := t.screen
	if r.culled(signedArea(s[0], s[1], s[2])) {
		r.stats.Culled++
		return
	}
	box := screenBounds(s, r.depth.Width(), r.depth.Height())
	if box.empty() {
		return
	}

	n := r.varyings.Len()
	v0 := r.vary[t.vary : t.vary+n]
	v1 := r.vary[t.vary+n : t.vary+2*n]
	v2 := r.vary[t.vary+2*n : t.vary+3*n]

	a, b, c := s[0].Vec2(), s[1].Vec2(), s[2].Vec2()
	for y := box.minY; y <= box.maxY; y++ {
		for x := box.minX; x <= box.maxX; x++ {
			w := Barycentric(a, b, c, mgl64.Vec2{float64(x), float64(y)})
			if w[0] < 0 || w[1] < 0 || w[2] < 0 {
				continue
			}
			r.stats.Fragments++

			z := interpolate(mgl64.Vec3{s[0][2], s[1][2], s[2][2]}, w)
			if !r.depth.Test(x, y, z) {
				r.stats.DepthRejected++
				continue
			}

			for i := range n {
				r.varyings.Set(i, Interpolate(v0[i], v1[i], v2[i], w))
			}
			col := SaturateVec4(r.shader.Fragment())
			r.target.Set(x, y, [4]uint8{
				uint8(col[2] * 255),
				uint8(col[1] * 255),
				uint8(col[0] * 255),
				255,
			})
			r.stats.Written++
		}
	}
}
