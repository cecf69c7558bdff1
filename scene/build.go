package scene

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sr3d"
	"github.com/gogpu/sr3d/model"
	"github.com/gogpu/sr3d/shaders"
	"github.com/gogpu/sr3d/texture"
)

const (
	shaderPhong   = "phong"
	shaderRamp    = "ramp"
	shaderNormals = "normals"
)

// shaderKinds lists the shaders a pass may name and whether they sample
// a texture.
var shaderKinds = map[string]bool{
	shaderPhong:   true,
	shaderRamp:    true,
	shaderNormals: false,
}

var depthNames = map[string]gputypes.CompareFunction{
	"":              gputypes.CompareFunctionGreater,
	"never":         gputypes.CompareFunctionNever,
	"less":          gputypes.CompareFunctionLess,
	"equal":         gputypes.CompareFunctionEqual,
	"less-equal":    gputypes.CompareFunctionLessEqual,
	"greater":       gputypes.CompareFunctionGreater,
	"not-equal":     gputypes.CompareFunctionNotEqual,
	"greater-equal": gputypes.CompareFunctionGreaterEqual,
	"always":        gputypes.CompareFunctionAlways,
}

func parseDepth(name string) (gputypes.CompareFunction, error) {
	f, ok := depthNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: depth compare %q", ErrInvalidScene, name)
	}
	return f, nil
}

func parseCull(cull, front string) (gputypes.CullMode, gputypes.FrontFace, error) {
	var mode gputypes.CullMode
	switch cull {
	case "", "none":
		mode = gputypes.CullModeNone
	case "front":
		mode = gputypes.CullModeFront
	case "back":
		mode = gputypes.CullModeBack
	default:
		return 0, 0, fmt.Errorf("%w: cull mode %q", ErrInvalidScene, cull)
	}

	var ff gputypes.FrontFace
	switch front {
	case "", "ccw":
		ff = gputypes.FrontFaceCCW
	case "cw":
		ff = gputypes.FrontFaceCW
	default:
		return 0, 0, fmt.Errorf("%w: front face %q", ErrInvalidScene, front)
	}
	return mode, ff, nil
}

// pipelineOptions returns the options shared by every pass.
func (s *Scene) pipelineOptions() ([]sr3d.Option, error) {
	depth, err := parseDepth(s.Depth)
	if err != nil {
		return nil, err
	}
	mode, front, err := parseCull(s.Cull, s.Front)
	if err != nil {
		return nil, err
	}
	return []sr3d.Option{
		sr3d.WithDepthCompare(depth),
		sr3d.WithCullMode(mode, front),
	}, nil
}

// loadMesh builds the scene geometry.
func (s *Scene) loadMesh() (*model.Mesh, error) {
	if sp := s.Mesh.Sphere; sp != nil {
		m, err := model.Sphere(sp.Radius, sp.Rings, sp.Segments)
		if err != nil {
			return nil, fmt.Errorf("scene: mesh: %w", err)
		}
		return m, nil
	}
	m, err := model.LoadOBJ(s.resolve(s.Mesh.OBJ))
	if err != nil {
		return nil, fmt.Errorf("scene: mesh: %w", err)
	}
	return m, nil
}

// Matrix returns the object-to-world transform.
func (t Transform) Matrix() mgl64.Mat4 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return mgl64.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2]).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.RotateY))).
		Mul4(mgl64.Scale3D(scale, scale, scale))
}

// light returns the configured light or the default one.
func (s *Scene) light() sr3d.Light {
	if s.Light == nil {
		return sr3d.DefaultLight()
	}
	l := s.Light
	dir := mgl64.Vec3(l.Direction)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return sr3d.Light{
		Color:     mgl64.Vec4(l.Color),
		Direction: sr3d.Direction(dir),
		Ambient:   mgl64.Vec4(l.Ambient),
	}
}

// camera builds a fresh camera for one pass.
func (s *Scene) camera() *sr3d.Camera {
	c := s.Camera
	cam := sr3d.NewCamera(mgl64.Vec3(c.Position), c.Aspect, c.FOV, c.Near, c.Far,
		sr3d.Rect{W: float64(s.Width), H: float64(s.Height)})
	cam.LookAt(mgl64.Vec3(c.Target))
	return cam
}

// shader builds the shader of one pass, loading its texture.
func (s *Scene) shader(p PassConfig, cache *texture.Cache) (sr3d.Shader, error) {
	sampled, ok := shaderKinds[p.Shader]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShader, p.Shader)
	}
	var tex *texture.Texture
	if sampled {
		var err error
		if tex, err = s.texture(p, cache); err != nil {
			return nil, fmt.Errorf("scene: pass %q: %w", p.Name, err)
		}
	}

	switch p.Shader {
	case shaderPhong:
		return shaders.NewPhong(tex, p.Gloss), nil
	case shaderRamp:
		return shaders.NewRamp(tex), nil
	default:
		return shaders.NewNormals(), nil
	}
}

// texture loads or generates the texture of a pass. Without a texture
// setting Phong samples white and Ramp a grey gradient. Files go through
// cache so passes sharing an image decode it once.
func (s *Scene) texture(p PassConfig, cache *texture.Cache) (*texture.Texture, error) {
	tc := p.Tex
	tex, err := s.baseTexture(p.Shader, tc, cache)
	if err != nil {
		return nil, err
	}
	if tc.Resize != nil {
		return texture.Resize(tex, tc.Resize[0], tc.Resize[1], texture.InterpBilinear)
	}
	return tex, nil
}

func (s *Scene) baseTexture(shader string, tc TextureConfig, cache *texture.Cache) (*texture.Texture, error) {
	if tc.Path != "" {
		return cache.Load(s.resolve(tc.Path))
	}

	colors := make([]color.NRGBA, len(tc.Colors))
	for i, c := range tc.Colors {
		colors[i] = color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
	}
	size := tc.Size
	if size == 0 {
		size = 256
	}
	pick := func(i int, fallback color.NRGBA) color.NRGBA {
		if i < len(colors) {
			return colors[i]
		}
		return fallback
	}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}

	switch tc.Kind {
	case "":
		if shader == shaderRamp {
			return texture.Gradient(size, black, white)
		}
		return texture.Solid(white), nil
	case "solid":
		return texture.Solid(pick(0, white)), nil
	case "bands":
		if len(colors) == 0 {
			return nil, fmt.Errorf("%w: bands texture needs colors", ErrInvalidScene)
		}
		return texture.Bands(size, colors...)
	case "gradient":
		return texture.Gradient(size, pick(0, black), pick(1, white))
	case "checker":
		cells := tc.Cells
		if cells == 0 {
			cells = max(1, size/32)
		}
		return texture.Checker(size, cells, pick(0, white), pick(1, black))
	}
	return nil, fmt.Errorf("%w: texture kind %q", ErrInvalidScene, tc.Kind)
}
