package sr3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frustum describes the perspective view volume.
type Frustum struct {
	// Aspect is the width/height ratio applied to the horizontal focal length.
	Aspect float64

	// FOV is the vertical field of view in radians.
	FOV float64

	// Near and Far are the clip plane distances. Near must differ from Far.
	Near, Far float64
}

// Rect is a viewport rectangle in pixels.
type Rect struct {
	X, Y, W, H float64
}

// Camera derives the view, projection and viewport matrices from a pose
// and frustum parameters.
//
// World space is right-handed. The camera keeps its position in a
// z-inverted view frame, and the view matrix looks down -Z.
//
// Mutators only mark the camera dirty. Call Updated once after any
// mutation and before reading View, Projection or Viewport.
type Camera struct {
	worldPos mgl64.Vec3
	pos      mgl64.Vec3 // worldPos with z negated
	rect     Rect
	frustum  Frustum

	forward, right mgl64.Vec3 // as set by LookAt

	view       mgl64.Mat4
	projection mgl64.Mat4
	viewport   mgl64.Mat4

	dirty bool
}

// NewCamera creates a camera at worldPos with the given frustum and
// viewport rectangle. The camera basis is unset until LookAt is called.
func NewCamera(worldPos mgl64.Vec3, aspect, fov, near, far float64, viewport Rect) *Camera {
	c := &Camera{
		rect: viewport,
		frustum: Frustum{
			Aspect: aspect,
			FOV:    fov,
			Near:   near,
			Far:    far,
		},
	}
	c.SetPosition(worldPos)
	return c
}

// SetPosition moves the camera to a new world-space position.
// The look direction is kept; call LookAt to re-aim.
func (c *Camera) SetPosition(worldPos mgl64.Vec3) {
	c.worldPos = worldPos
	c.pos = mgl64.Vec3{worldPos[0], worldPos[1], -worldPos[2]}
	c.dirty = true
}

// SetFrustum replaces the perspective parameters.
func (c *Camera) SetFrustum(f Frustum) {
	c.frustum = f
	c.dirty = true
}

// SetViewport replaces the viewport rectangle.
func (c *Camera) SetViewport(r Rect) {
	c.rect = r
	c.dirty = true
}

// LookAt aims the camera at target, expressed in the camera's view frame.
//
// The target must not lie straight above or below the camera: a forward
// axis parallel to world up yields a degenerate basis.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.forward = target.Sub(c.pos).Normalize()
	c.right = worldUp.Cross(c.forward).Normalize()
	c.dirty = true
}

// basis returns the orthonormal axes the view matrix is built from:
// forward, then up = forward x right, then right = forward x up.
func (c *Camera) basis() (f, u, r mgl64.Vec3) {
	f = c.forward.Normalize()
	u = f.Cross(c.right).Normalize()
	r = f.Cross(u).Normalize()
	return f, u, r
}

// UpdateView rebuilds the view matrix. The basis is re-orthonormalized
// first, so a skewed right vector still produces a pure rotation. The
// stored LookAt basis is not modified.
func (c *Camera) UpdateView() {
	f, u, r := c.basis()
	p := c.pos

	v := mgl64.Ident4()
	v.SetRow(0, mgl64.Vec4{r[0], r[1], r[2], -p.Dot(r)})
	v.SetRow(1, mgl64.Vec4{u[0], u[1], u[2], -p.Dot(u)})
	v.SetRow(2, mgl64.Vec4{-f[0], -f[1], -f[2], p.Dot(f)})
	c.view = v
}

// UpdateProjection rebuilds the perspective matrix. Clip w becomes the
// negated view-space z.
func (c *Camera) UpdateProjection() {
	fr := c.frustum
	cot := 1 / math.Tan(fr.FOV/2)

	p := mgl64.Ident4()
	p.Set(0, 0, cot*fr.Aspect)
	p.Set(1, 1, cot)
	p.Set(2, 2, (fr.Near+fr.Far)/(fr.Near-fr.Far))
	p.Set(2, 3, 2*fr.Near*fr.Far/(fr.Near-fr.Far))
	p.Set(3, 2, -1)
	p.Set(3, 3, 0)
	c.projection = p
}

// UpdateViewport rebuilds the NDC-to-pixel matrix: x and y in [-1, 1]
// map onto the viewport rectangle, z passes through unchanged.
func (c *Camera) UpdateViewport() {
	r := c.rect
	v := mgl64.Ident4()
	v.Set(0, 0, r.W/2)
	v.Set(0, 3, r.W/2+r.X)
	v.Set(1, 1, r.H/2)
	v.Set(1, 3, r.H/2+r.Y)
	c.viewport = v
}

// Updated recomputes view, projection and viewport, in that order, if
// the camera changed since the last call. It is a no-op otherwise.
func (c *Camera) Updated() {
	if !c.dirty {
		return
	}
	c.UpdateView()
	c.UpdateProjection()
	c.UpdateViewport()
	c.dirty = false
}

// Dirty reports whether the derived matrices are stale.
func (c *Camera) Dirty() bool { return c.dirty }

// View returns the world-to-view matrix.
func (c *Camera) View() mgl64.Mat4 { return c.view }

// Projection returns the view-to-clip matrix.
func (c *Camera) Projection() mgl64.Mat4 { return c.projection }

// Viewport returns the NDC-to-screen matrix.
func (c *Camera) Viewport() mgl64.Mat4 { return c.viewport }

// Position returns the camera position in its z-inverted view frame.
func (c *Camera) Position() mgl64.Vec3 { return c.pos }

// WorldPosition returns the camera position in world space.
func (c *Camera) WorldPosition() mgl64.Vec3 { return c.worldPos }

// Forward returns the look direction.
func (c *Camera) Forward() mgl64.Vec3 { return c.forward }

// Right returns the screen-right axis used by the view matrix.
func (c *Camera) Right() mgl64.Vec3 {
	_, _, r := c.basis()
	return r
}

// Up returns the screen-up axis used by the view matrix.
func (c *Camera) Up() mgl64.Vec3 {
	_, u, _ := c.basis()
	return u
}

// Frustum returns the perspective parameters.
func (c *Camera) Frustum() Frustum { return c.frustum }

// Rect returns the viewport rectangle.
func (c *Camera) Rect() Rect { return c.rect }
