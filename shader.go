package sr3d

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"
)

// Semantic is a bit set of the standard vertex attributes a shader
// consumes. The pipeline fills attribute slots in bit order, skipping
// bits that are not set.
type Semantic uint32

const (
	// SemanticVertex is the object-space position (w = 1). Mandatory.
	SemanticVertex Semantic = 1 << iota
	// SemanticNormal is the object-space normal (w = 0).
	SemanticNormal
	// SemanticTangent is the object-space tangent.
	SemanticTangent
	// SemanticTexcoord is the texture coordinate (z = w = 0).
	SemanticTexcoord
	// SemanticColor is the vertex color.
	SemanticColor
)

var semanticNames = [...]string{"Vertex", "Normal", "Tangent", "Texcoord", "Color"}

// Has reports whether every bit of x is set in s.
func (s Semantic) Has(x Semantic) bool {
	return s&x == x
}

// Count returns the number of semantics set.
func (s Semantic) Count() int {
	n := 0
	for i := range semanticNames {
		if s&(1<<i) != 0 {
			n++
		}
	}
	return n
}

// String returns the set semantics joined by "|".
func (s Semantic) String() string {
	if s == 0 {
		return "None"
	}
	var parts []string
	for i, name := range semanticNames {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if rest := s &^ (1<<len(semanticNames) - 1); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// Field is a named handle to one 4-component slot of a shader's
// attribute or varying record.
type Field struct {
	Name  string
	Value *mgl64.Vec4
}

// Slots is an ordered, fixed-length set of field handles. Reads and
// writes go straight through to the shader's own record, so no storage
// is allocated per vertex.
type Slots struct {
	fields []Field
}

func newSlots(kind string, fields []Field) *Slots {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Value == nil {
			panic(fmt.Sprintf("sr3d: %s slot %d (%q) has a nil handle", kind, i, f.Name))
		}
		if f.Name == "" {
			panic(fmt.Sprintf("sr3d: %s slot %d has no name", kind, i))
		}
		if seen[f.Name] {
			panic(fmt.Sprintf("sr3d: duplicate %s slot %q", kind, f.Name))
		}
		seen[f.Name] = true
	}
	return &Slots{fields: append([]Field(nil), fields...)}
}

// Len returns the number of slots.
func (s *Slots) Len() int { return len(s.fields) }

// Name returns the name of slot i.
func (s *Slots) Name(i int) string { return s.field(i).Name }

// At returns the current value of slot i.
func (s *Slots) At(i int) mgl64.Vec4 { return *s.field(i).Value }

// Set overwrites slot i.
func (s *Slots) Set(i int, v mgl64.Vec4) { *s.field(i).Value = v }

// Snapshot appends the current value of every slot to dst and returns
// the extended slice.
func (s *Slots) Snapshot(dst []mgl64.Vec4) []mgl64.Vec4 {
	for _, f := range s.fields {
		dst = append(dst, *f.Value)
	}
	return dst
}

// Layout describes the slots as a vertex buffer layout: one Float32x4
// attribute per slot, at shader location i.
func (s *Slots) Layout() gputypes.VertexBufferLayout {
	const size = 16
	attrs := make([]gputypes.VertexAttribute, len(s.fields))
	for i := range s.fields {
		attrs[i] = gputypes.VertexAttribute{
			Format:         gputypes.VertexFormatFloat32x4,
			Offset:         uint64(i * size),
			ShaderLocation: uint32(i),
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(len(s.fields) * size),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

func (s *Slots) field(i int) Field {
	if i < 0 || i >= len(s.fields) {
		panic(fmt.Sprintf("sr3d: slot index %d out of range [0, %d)", i, len(s.fields)))
	}
	return s.fields[i]
}

// Uniforms is the per-pass constant state visible to both shader stages.
// The pipeline sets it once per render pass.
type Uniforms struct {
	ObjectToClip        mgl64.Mat4
	ObjectToWorld       mgl64.Mat4
	LightColor          mgl64.Vec4
	LightDirection      mgl64.Vec4
	Ambient             mgl64.Vec4
	WorldSpaceCameraPos mgl64.Vec4
}

// Shader is a programmable vertex/fragment pair.
//
// Before calling Vertex the pipeline writes the attributes declared by
// Semantic into Attributes. Vertex writes Varyings and returns the
// clip-space position. Before calling Fragment the pipeline overwrites
// Varyings with values interpolated across the triangle; Fragment
// returns a linear RGBA color that the pipeline saturates.
//
// Concrete shaders embed ShaderBase and call Bind from their constructor.
type Shader interface {
	Semantic() Semantic
	Attributes() *Slots
	Varyings() *Slots
	SetUniforms(u Uniforms)
	Vertex() mgl64.Vec4
	Fragment() mgl64.Vec4
}

// ShaderBase holds the binding and uniform state shared by all shaders.
type ShaderBase struct {
	semantic   Semantic
	attributes *Slots
	varyings   *Slots
	uniforms   Uniforms
}

// Bind associates the shader's attribute and varying records with the
// generic slot sets. It must be called exactly once, before the shader
// is used. Each field must point into the shader's own storage.
//
// Bind panics if the position semantic is missing, if there are fewer
// attribute slots than declared semantics, or if any handle is invalid.
func (b *ShaderBase) Bind(semantic Semantic, attributes, varyings []Field) {
	if b.attributes != nil {
		panic("sr3d: shader bound twice")
	}
	if !semantic.Has(SemanticVertex) {
		panic(fmt.Sprintf("sr3d: shader semantic %v lacks the vertex position", semantic))
	}
	if len(attributes) < semantic.Count() {
		panic(fmt.Sprintf("sr3d: shader declares %v but binds only %d attribute slots",
			semantic, len(attributes)))
	}
	b.semantic = semantic
	b.attributes = newSlots("attribute", attributes)
	b.varyings = newSlots("varying", varyings)
}

// Bound reports whether Bind has been called.
func (b *ShaderBase) Bound() bool { return b.attributes != nil }

// MustBeBound panics if the shader has not been bound. Concrete shaders
// call it at the start of each stage.
func (b *ShaderBase) MustBeBound(stage gputypes.ShaderStage) {
	if b.attributes == nil {
		panic(fmt.Sprintf("sr3d: %v stage invoked on an unbound shader", stage))
	}
}

// Semantic returns the attributes this shader consumes.
func (b *ShaderBase) Semantic() Semantic { return b.semantic }

// Attributes returns the bound attribute slots.
func (b *ShaderBase) Attributes() *Slots {
	b.MustBeBound(gputypes.ShaderStageVertex)
	return b.attributes
}

// Varyings returns the bound varying slots.
func (b *ShaderBase) Varyings() *Slots {
	b.MustBeBound(gputypes.ShaderStagesVertexFragment)
	return b.varyings
}

// SetUniforms replaces the per-pass uniform state.
func (b *ShaderBase) SetUniforms(u Uniforms) { b.uniforms = u }

// Uniforms returns the per-pass uniform state.
func (b *ShaderBase) Uniforms() *Uniforms { return &b.uniforms }
