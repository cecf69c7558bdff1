// Package shaders provides shading routines for the sr3d pipeline.
//
// Each shader owns its attribute and varying records and binds them
// once in its constructor. A shader instance carries per-vertex and
// per-pixel scratch state, so it must not be shared between passes that
// render concurrently.
//
//	sh := shaders.NewPhong(albedo, 32)
//	sr3d.NewPipeline().Render(sr3d.Pass{Mesh: m, Target: fb, Shader: sh, Camera: cam})
//
// The zero value of every shader type is unbound; invoking its stages
// panics.
package shaders

import "github.com/go-gl/mathgl/mgl64"

// normalize returns v scaled to unit length, or the zero vector when v
// has no length.
func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
