// Package model provides triangle meshes for the sr3d pipeline: a
// Wavefront OBJ reader and procedural primitives.
package model

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Errors returned while building meshes.
var (
	// ErrNoFaces is returned when a mesh source contains no faces.
	ErrNoFaces = errors.New("model: no faces")

	// ErrMalformed is returned when OBJ input cannot be parsed.
	ErrMalformed = errors.New("model: malformed OBJ")
)

// Corner indexes the position, texcoord and normal of one face corner.
// Absent texcoords and normals are -1.
type Corner struct {
	V, T, N int
}

// Mesh is an indexed triangle list. It implements sr3d.Mesh.
//
// Corners without a normal report the face's geometric normal. Corners
// without a texcoord report (0, 0).
type Mesh struct {
	positions []mgl64.Vec3
	texcoords []mgl64.Vec2
	normals   []mgl64.Vec3
	faces     [][3]Corner
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.faces) }

// VertexCount returns the number of distinct positions.
func (m *Mesh) VertexCount() int { return len(m.positions) }

// Face returns the corner indices of a triangle.
func (m *Mesh) Face(face int) [3]Corner { return m.faces[face] }

// Position returns the object-space position of a face corner.
func (m *Mesh) Position(face, corner int) mgl64.Vec3 {
	return m.positions[m.faces[face][corner].V]
}

// Normal returns the object-space normal of a face corner.
func (m *Mesh) Normal(face, corner int) mgl64.Vec3 {
	if n := m.faces[face][corner].N; n >= 0 {
		return m.normals[n]
	}
	return m.FaceNormal(face)
}

// Texcoord returns the texture coordinate of a face corner.
func (m *Mesh) Texcoord(face, corner int) mgl64.Vec2 {
	if t := m.faces[face][corner].T; t >= 0 {
		return m.texcoords[t]
	}
	return mgl64.Vec2{}
}

// FaceNormal returns the unit normal of a face from its winding:
// counter-clockwise corners face the viewer. Degenerate faces return
// the zero vector.
func (m *Mesh) FaceNormal(face int) mgl64.Vec3 {
	a := m.Position(face, 0)
	b := m.Position(face, 1)
	c := m.Position(face, 2)
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}

// Bounds returns the axis-aligned bounding box of all positions.
func (m *Mesh) Bounds() (lo, hi mgl64.Vec3) {
	if len(m.positions) == 0 {
		return lo, hi
	}
	lo, hi = m.positions[0], m.positions[0]
	for _, p := range m.positions[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}
