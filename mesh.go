package sr3d

import "github.com/go-gl/mathgl/mgl64"

// Mesh is a triangle list. Each face has three corners, addressed by
// corner index 0, 1, 2 in submission order.
//
// The pipeline borrows the mesh for the duration of a render pass and
// never modifies it.
type Mesh interface {
	FaceCount() int
	Position(face, corner int) mgl64.Vec3
	Normal(face, corner int) mgl64.Vec3
	Texcoord(face, corner int) mgl64.Vec2
}

// TangentMesh is a Mesh that also supplies per-corner tangents.
type TangentMesh interface {
	Mesh
	Tangent(face, corner int) mgl64.Vec4
}

// ColorMesh is a Mesh that also supplies per-corner colors.
type ColorMesh interface {
	Mesh
	Color(face, corner int) mgl64.Vec4
}

// ColorSink receives rasterized pixels. Coordinates follow screen space:
// x grows right, y grows up, origin at the bottom-left pixel. Channels
// are in B, G, R, A order.
type ColorSink interface {
	Width() int
	Height() int
	Set(x, y int, c [4]uint8)
}
