package shaders

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sr3d"
)

// Phong shades a textured surface with ambient, Lambertian diffuse and
// Blinn-Phong specular terms lit by the pass's directional light.
type Phong struct {
	sr3d.ShaderBase

	// MainTex supplies the albedo, sampled at the interpolated texcoord.
	MainTex sr3d.ColorSource

	// Gloss is the specular exponent. Larger values give tighter highlights.
	Gloss float64

	attr struct {
		vertex   mgl64.Vec4
		normal   mgl64.Vec4
		texcoord mgl64.Vec4
	}
	vary struct {
		posCS  mgl64.Vec4
		posWS  mgl64.Vec4
		nDirWS mgl64.Vec4
		uv     mgl64.Vec4
	}
}

// NewPhong returns a bound Phong shader.
func NewPhong(mainTex sr3d.ColorSource, gloss float64) *Phong {
	s := &Phong{MainTex: mainTex, Gloss: gloss}
	s.Bind(sr3d.SemanticVertex|sr3d.SemanticNormal|sr3d.SemanticTexcoord,
		[]sr3d.Field{
			{Name: "vertex", Value: &s.attr.vertex},
			{Name: "normal", Value: &s.attr.normal},
			{Name: "texcoord", Value: &s.attr.texcoord},
		},
		[]sr3d.Field{
			{Name: "posCS", Value: &s.vary.posCS},
			{Name: "posWS", Value: &s.vary.posWS},
			{Name: "nDirWS", Value: &s.vary.nDirWS},
			{Name: "uv", Value: &s.vary.uv},
		})
	return s
}

// Vertex transforms the position to clip and world space and forwards
// the world normal and texcoord.
func (s *Phong) Vertex() mgl64.Vec4 {
	s.MustBeBound(gputypes.ShaderStageVertex)
	u := s.Uniforms()

	s.vary.nDirWS = u.ObjectToWorld.Mul4x1(s.attr.normal)
	s.vary.posCS = u.ObjectToClip.Mul4x1(s.attr.vertex)
	s.vary.posWS = u.ObjectToWorld.Mul4x1(s.attr.vertex)
	s.vary.uv = s.attr.texcoord
	return s.vary.posCS
}

// Fragment returns ambient + diffuse + specular with alpha 1.
func (s *Phong) Fragment() mgl64.Vec4 {
	s.MustBeBound(gputypes.ShaderStageFragment)
	u := s.Uniforms()

	n := normalize(s.vary.nDirWS.Vec3())
	l := normalize(u.LightDirection.Vec3())
	v := normalize(u.WorldSpaceCameraPos.Vec3().Sub(s.vary.posWS.Vec3()))
	h := normalize(l.Add(v))

	albedo := sr3d.Tex2D(s.MainTex, s.vary.uv.Vec2()).Vec3()
	light := u.LightColor.Vec3()

	ambient := sr3d.MulElem3(u.Ambient.Vec3(), albedo)
	diffuse := sr3d.MulElem3(light, albedo).Mul(sr3d.Saturate(n.Dot(l)))
	specular := light.Mul(math.Pow(sr3d.Saturate(n.Dot(h)), s.Gloss))

	return ambient.Add(diffuse).Add(specular).Vec4(1)
}
