// Package sr3d is a software 3D rasterizer that mimics a GPU pipeline on
// the CPU.
//
// # Overview
//
// A render pass pushes every triangle of a Mesh through the stages of a
// fixed-function pipeline with programmable vertex and fragment shaders:
//
//  1. attribute fetch from the mesh into the shader's attribute slots
//  2. the shader's Vertex stage, producing a clip-space position
//  3. whole-triangle clip accept or reject
//  4. perspective divide and viewport mapping
//  5. barycentric coverage over the triangle's screen bounding box
//  6. depth test and write
//  7. varying interpolation and the shader's Fragment stage
//  8. write-out to a ColorSink in B, G, R, A byte order
//
// # Quick Start
//
//	cam := sr3d.NewCamera(mgl64.Vec3{3, -4, -5}, 1.77, 1.04, 0.01, 1000,
//		sr3d.Rect{W: 800, H: 800})
//	cam.LookAt(mgl64.Vec3{})
//
//	fb := sr3d.NewFramebuffer(800, 800)
//	mesh, _ := model.Sphere(1, 32, 64)
//
//	p := sr3d.NewPipeline(sr3d.WithDepthCompare(gputypes.CompareFunctionLess))
//	stats := p.Render(sr3d.Pass{
//		Mesh:   mesh,
//		Target: fb,
//		Shader: shaders.NewRamp(ramp),
//		Camera: cam,
//		Light:  sr3d.DefaultLight(),
//	})
//	_ = fb.Save("ramp.png")
//
// # Shaders
//
// A Shader embeds ShaderBase and binds named attribute and varying
// slots once, in its constructor. The pipeline fills attributes by
// Semantic bit, snapshots varyings after each Vertex call and writes
// interpolated values back before each Fragment call. Concrete shaders
// live in the shaders package.
//
// # Coordinate System
//
// Screen space has its origin at the bottom-left pixel with y growing
// up. Framebuffer and image export flip rows so saved images have the
// usual top-left origin.
//
// # Concurrency
//
// A Pipeline may render passes concurrently as long as each pass has
// its own Camera, Shader and Target. Meshes and color sources are only
// read.
package sr3d

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
