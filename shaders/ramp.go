package shaders

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sr3d"
)

// Ramp maps the half-Lambert term onto a color ramp, giving a banded
// toon look. The ramp is read along its bottom row.
type Ramp struct {
	sr3d.ShaderBase

	// RampTex is indexed horizontally by dot(N, L)*0.5 + 0.5.
	RampTex sr3d.ColorSource

	attr struct {
		vertex mgl64.Vec4
		normal mgl64.Vec4
	}
	vary struct {
		posCS  mgl64.Vec4
		nDirWS mgl64.Vec4
	}
}

// NewRamp returns a bound Ramp shader.
func NewRamp(rampTex sr3d.ColorSource) *Ramp {
	s := &Ramp{RampTex: rampTex}
	s.Bind(sr3d.SemanticVertex|sr3d.SemanticNormal,
		[]sr3d.Field{
			{Name: "vertex", Value: &s.attr.vertex},
			{Name: "normal", Value: &s.attr.normal},
		},
		[]sr3d.Field{
			{Name: "posCS", Value: &s.vary.posCS},
			{Name: "nDirWS", Value: &s.vary.nDirWS},
		})
	return s
}

func (s *Ramp) Vertex() mgl64.Vec4 {
	s.MustBeBound(gputypes.ShaderStageVertex)
	u := s.Uniforms()

	s.vary.posCS = u.ObjectToClip.Mul4x1(s.attr.vertex)
	s.vary.nDirWS = u.ObjectToWorld.Mul4x1(s.attr.normal)
	return s.vary.posCS
}

func (s *Ramp) Fragment() mgl64.Vec4 {
	s.MustBeBound(gputypes.ShaderStageFragment)
	u := s.Uniforms()

	n := normalize(s.vary.nDirWS.Vec3())
	l := normalize(u.LightDirection.Vec3())
	halfLambert := n.Dot(l)*0.5 + 0.5

	return sr3d.Tex2D(s.RampTex, mgl64.Vec2{halfLambert, 0}).Vec3().Vec4(1)
}
