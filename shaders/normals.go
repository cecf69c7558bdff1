package shaders

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sr3d"
)

// Normals colors each pixel by its world-space normal, remapped from
// [-1, 1] to [0, 1]. Useful for checking mesh normals and winding.
type Normals struct {
	sr3d.ShaderBase

	attr struct {
		vertex mgl64.Vec4
		normal mgl64.Vec4
	}
	vary struct {
		nDirWS mgl64.Vec4
	}
}

// NewNormals returns a bound Normals shader.
func NewNormals() *Normals {
	s := &Normals{}
	s.Bind(sr3d.SemanticVertex|sr3d.SemanticNormal,
		[]sr3d.Field{
			{Name: "vertex", Value: &s.attr.vertex},
			{Name: "normal", Value: &s.attr.normal},
		},
		[]sr3d.Field{
			{Name: "nDirWS", Value: &s.vary.nDirWS},
		})
	return s
}

func (s *Normals) Vertex() mgl64.Vec4 {
	s.MustBeBound(gputypes.ShaderStageVertex)
	u := s.Uniforms()
	s.vary.nDirWS = u.ObjectToWorld.Mul4x1(s.attr.normal)
	return u.ObjectToClip.Mul4x1(s.attr.vertex)
}

func (s *Normals) Fragment() mgl64.Vec4 {
	s.MustBeBound(gputypes.ShaderStageFragment)
	n := normalize(s.vary.nDirWS.Vec3())
	return n.Mul(0.5).Add(mgl64.Vec3{0.5, 0.5, 0.5}).Vec4(1)
}
