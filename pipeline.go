package sr3d

import (
	"context"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"
)

// Light is the single directional light visible to shaders.
type Light struct {
	Color     mgl64.Vec4
	Direction mgl64.Vec4 // towards the light, w = 0
	Ambient   mgl64.Vec4
}

// DefaultLight returns a warm white light shining along +Z with a dim
// gray ambient term.
func DefaultLight() Light {
	return Light{
		Color:     mgl64.Vec4{1, 0.8, 0.8, 1},
		Direction: mgl64.Vec4{0, 0, 1, 0}.Normalize(),
		Ambient:   mgl64.Vec4{0.1, 0.1, 0.1, 1},
	}
}

// Pass is one draw of a mesh through a shader into a color sink.
type Pass struct {
	Mesh   Mesh
	Target ColorSink
	Shader Shader
	Camera *Camera

	// Light is the directional light. The zero value selects DefaultLight.
	Light Light

	// Model is the object-to-world transform. The zero value selects
	// the identity.
	Model mgl64.Mat4
}

// Stats counts what happened to a pass's faces and pixels.
type Stats struct {
	Faces         int // faces submitted
	Accepted      int // faces passing the clip test
	Discarded     int // faces with every corner outside the clip volume
	Culled        int // accepted faces removed by the cull mode
	Fragments     int // covered pixels reaching the depth test
	DepthRejected int // fragments failing the depth test
	Written       int // pixels written to the target
}

// Pipeline runs render passes: vertex stage, whole-triangle clip
// accept/reject, perspective divide, viewport mapping, barycentric
// coverage, depth test, varying interpolation and fragment stage.
//
// A Pipeline holds only configuration, so one value may render several
// passes concurrently as long as the passes share no shader or target.
type Pipeline struct {
	opts options
}

// NewPipeline creates a pipeline with the given options.
func NewPipeline(opts ...Option) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{opts: o}
}

// DepthCompare returns the depth test function.
func (p *Pipeline) DepthCompare() gputypes.CompareFunction { return p.opts.depthCompare }

// CullMode returns the face culling mode and the winding treated as front.
func (p *Pipeline) CullMode() (gputypes.CullMode, gputypes.FrontFace) {
	return p.opts.cullMode, p.opts.frontFace
}

// minClipW is the smallest divisor used by the perspective divide.
const minClipW = 1e-7

// triangle is an accepted face waiting for rasterization. Its varyings
// live in the pass's shared snapshot slice starting at vary.
type triangle struct {
	screen [3]mgl64.Vec3 // integer x, y and NDC z
	vary   int
}

// uniformsFor builds the per-pass uniform state.
func uniformsFor(pass *Pass) Uniforms {
	cam := pass.Camera
	model := pass.Model
	if model == (mgl64.Mat4{}) {
		model = mgl64.Ident4()
	}
	light := pass.Light
	if light == (Light{}) {
		light = DefaultLight()
	}
	view := cam.View()
	return Uniforms{
		ObjectToClip:        cam.Projection().Mul4(view).Mul4(model),
		ObjectToWorld:       view.Mul4(model),
		LightColor:          light.Color,
		LightDirection:      light.Direction,
		Ambient:             light.Ambient,
		WorldSpaceCameraPos: Point(cam.Position()),
	}
}

// Render draws pass and returns its statistics.
//
// The camera is brought up to date first. A depth buffer sized to the
// target lives exactly as long as the call. Render panics on a missing
// mesh, target, shader or camera, and on an unbound shader.
func (p *Pipeline) Render(pass Pass) Stats {
	switch {
	case pass.Mesh == nil:
		panic("sr3d: render pass has no mesh")
	case pass.Target == nil:
		panic("sr3d: render pass has no target")
	case pass.Shader == nil:
		panic("sr3d: render pass has no shader")
	case pass.Camera == nil:
		panic("sr3d: render pass has no camera")
	}
	sh := pass.Shader
	attrs, varyings := sh.Attributes(), sh.Varyings()
	semantic := sh.Semantic()
	if !semantic.Has(SemanticVertex) {
		panic("sr3d: shader does not consume vertex positions")
	}
	if log := Logger(); log.Enabled(context.Background(), slog.LevelDebug) {
		in, out := attrs.Layout(), varyings.Layout()
		log.Debug("sr3d: shader slots",
			"semantic", semantic,
			"attributeStride", in.ArrayStride,
			"attributes", len(in.Attributes),
			"varyingStride", out.ArrayStride,
			"varyings", len(out.Attributes))
	}

	pass.Camera.Updated()
	sh.SetUniforms(uniformsFor(&pass))

	depth := defaultDepthPool.get(pass.Target.Width(), pass.Target.Height(), p.opts.depthCompare)
	defer defaultDepthPool.put(depth)

	fill := newAttributeFiller(pass.Mesh, semantic)
	faces := pass.Mesh.FaceCount()
	stats := Stats{Faces: faces}

	viewport := pass.Camera.Viewport()
	tris := make([]triangle, 0, faces)
	snapshots := make([]mgl64.Vec4, 0, faces*3*varyings.Len())

	for face := range faces {
		var clip [3]mgl64.Vec4
		mark := len(snapshots)
		for corner := range 3 {
			fill.fill(attrs, face, corner)
			clip[corner] = sh.Vertex()
			snapshots = varyings.Snapshot(snapshots)
		}
		if !insideClip(clip[0]) && !insideClip(clip[1]) && !insideClip(clip[2]) {
			snapshots = snapshots[:mark]
			stats.Discarded++
			continue
		}

		t := triangle{vary: mark}
		for corner := range 3 {
			ndc := perspectiveDivide(clip[corner])
			s := viewport.Mul4x1(ndc)
			t.screen[corner] = mgl64.Vec3{discretize(s[0]), discretize(s[1]), s[2]}
		}
		tris = append(tris, t)
	}
	stats.Accepted = len(tris)

	r := rasterizer{
		opts:     &p.opts,
		target:   pass.Target,
		depth:    depth,
		shader:   sh,
		varyings: varyings,
		vary:     snapshots,
		stats:    &stats,
	}
	done := stats.Discarded
	if p.opts.progress != nil && done > 0 {
		p.opts.progress(done, faces)
	}
	for i := range tris {
		r.draw(&tris[i])
		if p.opts.progress != nil {
			done++
			p.opts.progress(done, faces)
		}
	}

	Logger().Debug("sr3d: render pass complete",
		"faces", stats.Faces,
		"accepted", stats.Accepted,
		"discarded", stats.Discarded,
		"culled", stats.Culled,
		"fragments", stats.Fragments,
		"depthRejected", stats.DepthRejected,
		"written", stats.Written)
	return stats
}

// insideClip reports whether every coordinate of a clip-space position
// lies within [-w, w].
func insideClip(v mgl64.Vec4) bool {
	w := v[3]
	for i := range 3 {
		if v[i] < -w || v[i] > w {
			return false
		}
	}
	return true
}

// perspectiveDivide divides x, y, z by w, clamped to at least minClipW,
// and sets w to 1.
func perspectiveDivide(v mgl64.Vec4) mgl64.Vec4 {
	w := math.Max(v[3], minClipW)
	return mgl64.Vec4{v[0] / w, v[1] / w, v[2] / w, 1}
}

// discretize rounds a screen coordinate to its pixel, halves rounding up.
func discretize(x float64) float64 {
	return math.Floor(x + 0.5)
}

// attributeFiller writes mesh data into a shader's attribute slots in
// the fixed order position, normal, tangent, texcoord, color, skipping
// semantics the shader does not declare.
type attributeFiller struct {
	mesh     Mesh
	semantic Semantic
	tangents TangentMesh
	colors   ColorMesh
}

func newAttributeFiller(mesh Mesh, semantic Semantic) *attributeFiller {
	f := &attributeFiller{mesh: mesh, semantic: semantic}
	if semantic.Has(SemanticTangent) {
		if tm, ok := mesh.(TangentMesh); ok {
			f.tangents = tm
		} else {
			Logger().Warn("sr3d: shader consumes tangents the mesh does not supply", "semantic", semantic)
		}
	}
	if semantic.Has(SemanticColor) {
		if cm, ok := mesh.(ColorMesh); ok {
			f.colors = cm
		} else {
			Logger().Warn("sr3d: shader consumes colors the mesh does not supply", "semantic", semantic)
		}
	}
	return f
}

func (f *attributeFiller) fill(slots *Slots, face, corner int) {
	slot := 0
	slots.Set(slot, Point(f.mesh.Position(face, corner)))
	slot++
	if f.semantic.Has(SemanticNormal) {
		slots.Set(slot, Direction(f.mesh.Normal(face, corner)))
		slot++
	}
	if f.semantic.Has(SemanticTangent) {
		var t mgl64.Vec4
		if f.tangents != nil {
			t = f.tangents.Tangent(face, corner)
		}
		slots.Set(slot, t)
		slot++
	}
	if f.semantic.Has(SemanticTexcoord) {
		uv := f.mesh.Texcoord(face, corner)
		slots.Set(slot, mgl64.Vec4{uv[0], uv[1], 0, 0})
		slot++
	}
	if f.semantic.Has(SemanticColor) {
		var c mgl64.Vec4
		if f.colors != nil {
			c = f.colors.Color(face, corner)
		}
		slots.Set(slot, c)
	}
}
