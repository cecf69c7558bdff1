// Package scene describes render jobs in YAML and runs them.
//
// A scene names one mesh, one camera and one light, and any number of
// passes. Each pass shades the mesh with its own shader into its own
// framebuffer, so passes render concurrently.
//
// Example scene file:
//
//	width: 800
//	height: 800
//	depth: less
//	camera:
//	  position: [3, -4, -5]
//	  target: [0, 0, 0]
//	mesh:
//	  obj: head.obj
//	passes:
//	  - name: phong
//	    shader: phong
//	    gloss: 300
//	    texture: {path: head_diffuse.png}
//	    output: phong.png
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Errors returned while loading or validating scenes.
var (
	// ErrInvalidScene is returned when a scene fails validation.
	ErrInvalidScene = errors.New("scene: invalid scene")

	// ErrUnknownShader is returned for a pass naming no known shader.
	ErrUnknownShader = errors.New("scene: unknown shader")
)

// Defaults applied to zero fields.
const (
	DefaultSize   = 800
	DefaultAspect = 1.77
	DefaultFOV    = 1.04
	DefaultNear   = 0.01
	DefaultFar    = 1000
	DefaultGloss  = 300
)

// Scene is a parsed scene file.
type Scene struct {
	Width  int          `yaml:"width,omitempty"`
	Height int          `yaml:"height,omitempty"`
	Camera CameraConfig `yaml:"camera"`
	Light  *LightConfig `yaml:"light,omitempty"`
	Mesh   MeshConfig   `yaml:"mesh"`

	// Depth names the depth compare function: less, less-equal, greater,
	// greater-equal, equal, not-equal, always or never. Empty means
	// greater.
	Depth string `yaml:"depth,omitempty"`

	// Cull names the culled faces: none, front or back. Front names the
	// front-facing winding: ccw or cw.
	Cull  string `yaml:"cull,omitempty"`
	Front string `yaml:"front,omitempty"`

	Passes []PassConfig `yaml:"passes"`

	// dir resolves relative paths. Load sets it to the file's directory.
	dir string
}

// CameraConfig places the camera. Position is in world space; Target
// is in the camera's view frame, which negates world z.
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	Aspect   float64    `yaml:"aspect,omitempty"`
	FOV      float64    `yaml:"fov,omitempty"`
	Near     float64    `yaml:"near,omitempty"`
	Far      float64    `yaml:"far,omitempty"`
}

// LightConfig overrides the default directional light.
type LightConfig struct {
	Color     [4]float64 `yaml:"color"`
	Direction [3]float64 `yaml:"direction"`
	Ambient   [4]float64 `yaml:"ambient"`
}

// MeshConfig selects the geometry: an OBJ file or a generated sphere.
type MeshConfig struct {
	OBJ       string        `yaml:"obj,omitempty"`
	Sphere    *SphereConfig `yaml:"sphere,omitempty"`
	Transform Transform     `yaml:"transform,omitempty"`
}

// SphereConfig describes a UV sphere.
type SphereConfig struct {
	Radius   float64 `yaml:"radius"`
	Rings    int     `yaml:"rings"`
	Segments int     `yaml:"segments"`
}

// Transform places the mesh in the world: scale, then rotate about Y
// (degrees), then translate. A zero Scale means 1.
type Transform struct {
	Translate [3]float64 `yaml:"translate,omitempty"`
	RotateY   float64    `yaml:"rotateY,omitempty"`
	Scale     float64    `yaml:"scale,omitempty"`
}

// PassConfig is one shading pass.
type PassConfig struct {
	Name   string        `yaml:"name,omitempty"`
	Shader string        `yaml:"shader"`
	Gloss  float64       `yaml:"gloss,omitempty"`
	Tex    TextureConfig `yaml:"texture,omitempty"`
	Output string        `yaml:"output"`

	// Background is the RGBA clear color in [0, 1]. Nil leaves the
	// framebuffer transparent black.
	Background *[4]float64 `yaml:"background,omitempty"`
}

// TextureConfig selects a texture: an image file or a generated one.
type TextureConfig struct {
	Path string `yaml:"path,omitempty"`

	// Kind generates a texture when Path is empty: solid, bands,
	// gradient or checker. Colors are RGBA bytes.
	Kind   string     `yaml:"kind,omitempty"`
	Colors [][4]uint8 `yaml:"colors,omitempty"`
	Size   int        `yaml:"size,omitempty"`
	Cells  int        `yaml:"cells,omitempty"`

	// Resize rescales the texture to width x height with bilinear
	// filtering.
	Resize *[2]int `yaml:"resize,omitempty"`
}

// Default returns the built-in scene: a lit sphere rendered once with a
// green ramp and once with Phong shading over a checker texture.
func Default() *Scene {
	s := &Scene{
		Width:  DefaultSize,
		Height: DefaultSize,
		Camera: CameraConfig{
			Position: [3]float64{3, -4, -5},
			Aspect:   DefaultAspect,
			FOV:      DefaultFOV,
			Near:     DefaultNear,
			Far:      DefaultFar,
		},
		Mesh: MeshConfig{
			Sphere: &SphereConfig{Radius: 1, Rings: 48, Segments: 96},
		},
		Depth: "less",
		Passes: []PassConfig{
			{
				Name:   "ramp",
				Shader: "ramp",
				Tex: TextureConfig{
					Kind:   "bands",
					Size:   256,
					Colors: [][4]uint8{{8, 48, 16, 255}, {32, 128, 48, 255}, {120, 220, 120, 255}},
				},
				Output: "framebuffer_ramp.png",
			},
			{
				Name:   "phong",
				Shader: "phong",
				Gloss:  DefaultGloss,
				Tex: TextureConfig{
					Kind:   "checker",
					Size:   512,
					Cells:  16,
					Colors: [][4]uint8{{200, 170, 140, 255}, {90, 60, 40, 255}},
				},
				Output: "framebuffer_phong.png",
			},
		},
	}
	return s
}

// Load reads and validates a scene file. Relative paths inside the
// scene resolve against the file's directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("scene: read file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes and validates a YAML scene. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the scene as YAML.
func (s *Scene) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("scene: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("scene: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// SetDir sets the directory relative paths resolve against.
func (s *Scene) SetDir(dir string) { s.dir = dir }

func (s *Scene) normalize() {
	if s.Width == 0 {
		s.Width = DefaultSize
	}
	if s.Height == 0 {
		s.Height = DefaultSize
	}
	c := &s.Camera
	if c.Aspect == 0 {
		c.Aspect = DefaultAspect
	}
	if c.FOV == 0 {
		c.FOV = DefaultFOV
	}
	if c.Near == 0 {
		c.Near = DefaultNear
	}
	if c.Far == 0 {
		c.Far = DefaultFar
	}
	for i := range s.Passes {
		p := &s.Passes[i]
		p.Shader = strings.ToLower(p.Shader)
		if p.Name == "" {
			p.Name = p.Shader
		}
		if p.Shader == shaderPhong && p.Gloss == 0 {
			p.Gloss = DefaultGloss
		}
	}
}

// Validate reports the first problem that would stop the scene from
// rendering, wrapping ErrInvalidScene or ErrUnknownShader. Pass names
// and outputs must be unique.
func (s *Scene) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
	}

	if s.Width <= 0 || s.Height <= 0 {
		return invalid("size %dx%d", s.Width, s.Height)
	}
	if c := s.Camera; c.Near <= 0 || c.Far <= c.Near || c.FOV <= 0 {
		return invalid("camera frustum near=%v far=%v fov=%v", c.Near, c.Far, c.FOV)
	}
	if s.Camera.Position == s.Camera.Target {
		return invalid("camera position equals target")
	}

	m := s.Mesh
	switch {
	case m.OBJ == "" && m.Sphere == nil:
		return invalid("mesh needs obj or sphere")
	case m.OBJ != "" && m.Sphere != nil:
		return invalid("mesh sets both obj and sphere")
	}

	if _, err := parseDepth(s.Depth); err != nil {
		return err
	}
	if _, _, err := parseCull(s.Cull, s.Front); err != nil {
		return err
	}

	if len(s.Passes) == 0 {
		return invalid("no passes")
	}
	outputs := make(map[string]string, len(s.Passes))
	names := make(map[string]bool, len(s.Passes))
	for _, p := range s.Passes {
		if _, ok := shaderKinds[p.Shader]; !ok {
			return fmt.Errorf("%w: %q in pass %q", ErrUnknownShader, p.Shader, p.Name)
		}
		if names[p.Name] {
			return invalid("two passes named %q", p.Name)
		}
		names[p.Name] = true
		if p.Output == "" {
			return invalid("pass %q has no output", p.Name)
		}
		if prev, ok := outputs[p.Output]; ok {
			return invalid("passes %q and %q both write %s", prev, p.Name, p.Output)
		}
		outputs[p.Output] = p.Name
		if p.Tex.Path != "" && p.Tex.Kind != "" {
			return invalid("pass %q texture sets both path and kind", p.Name)
		}
	}
	return nil
}

func (s *Scene) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.dir == "" {
		return path
	}
	return filepath.Join(s.dir, path)
}
