package scene

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sr3d/texture"
)

func TestDefault(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if s.Width != 800 || s.Height != 800 {
		t.Errorf("size = %dx%d, want 800x800", s.Width, s.Height)
	}
	if s.Camera.Position != [3]float64{3, -4, -5} {
		t.Errorf("camera position = %v", s.Camera.Position)
	}
	if len(s.Passes) != 2 || s.Passes[0].Shader != "ramp" || s.Passes[1].Shader != "phong" {
		t.Errorf("passes = %+v, want ramp then phong", s.Passes)
	}
}

func TestParse_Defaults(t *testing.T) {
	s, err := Parse([]byte(`
camera:
  position: [0, 0, 4]
mesh:
  sphere: {radius: 1, rings: 4, segments: 8}
passes:
  - shader: Phong
    output: out.png
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Width != DefaultSize || s.Height != DefaultSize {
		t.Errorf("size = %dx%d, want defaults", s.Width, s.Height)
	}
	c := s.Camera
	if c.Aspect != DefaultAspect || c.FOV != DefaultFOV || c.Near != DefaultNear || c.Far != DefaultFar {
		t.Errorf("camera = %+v, want default frustum", c)
	}
	p := s.Passes[0]
	if p.Shader != "phong" || p.Name != "phong" || p.Gloss != DefaultGloss {
		t.Errorf("pass = %+v, want normalized phong", p)
	}
	opts, err := s.pipelineOptions()
	if err != nil || len(opts) != 2 {
		t.Errorf("pipelineOptions() = %d options, %v", len(opts), err)
	}
}

func TestParse_Errors(t *testing.T) {
	const mesh = "mesh: {sphere: {radius: 1, rings: 4, segments: 8}}\ncamera: {position: [0, 0, 4]}\n"
	const pass = "passes: [{shader: ramp, output: a.png}]\n"
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown key", mesh + pass + "colour: red\n", ErrInvalidScene},
		{"not yaml", "passes: [", ErrInvalidScene},
		{"unknown shader", mesh + "passes: [{shader: toon, output: a.png}]\n", ErrUnknownShader},
		{"no passes", mesh, ErrInvalidScene},
		{"no output", mesh + "passes: [{shader: ramp}]\n", ErrInvalidScene},
		{"duplicate output", mesh + "passes: [{shader: ramp, output: a.png}, {shader: phong, output: a.png}]\n", ErrInvalidScene},
		{"no mesh", "camera: {position: [0, 0, 4]}\n" + pass, ErrInvalidScene},
		{"two meshes", "mesh: {obj: a.obj, sphere: {radius: 1, rings: 4, segments: 8}}\ncamera: {position: [0, 0, 4]}\n" + pass, ErrInvalidScene},
		{"bad depth", mesh + pass + "depth: sideways\n", ErrInvalidScene},
		{"bad cull", mesh + pass + "cull: both\n", ErrInvalidScene},
		{"bad front", mesh + pass + "front: up\n", ErrInvalidScene},
		{"negative size", mesh + pass + "width: -1\n", ErrInvalidScene},
		{"camera at target", "mesh: {sphere: {radius: 1, rings: 4, segments: 8}}\n" + pass, ErrInvalidScene},
		{"bad frustum", "mesh: {sphere: {radius: 1, rings: 4, segments: 8}}\ncamera: {position: [0, 0, 4], near: 5, far: 1}\n" + pass, ErrInvalidScene},
		{"duplicate default name", mesh + "passes: [{shader: phong, output: a.png}, {shader: Phong, output: b.png}]\n", ErrInvalidScene},
		{"duplicate name", mesh + "passes: [{name: x, shader: ramp, output: a.png}, {name: x, shader: phong, output: b.png}]\n", ErrInvalidScene},
		{"path and kind", mesh + "passes: [{shader: ramp, output: a.png, texture: {path: a.png, kind: solid}}]\n", ErrInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_DepthAndCull(t *testing.T) {
	tests := []struct {
		depth, cull, front string
		compare            gputypes.CompareFunction
		mode               gputypes.CullMode
		face               gputypes.FrontFace
	}{
		{"", "", "", gputypes.CompareFunctionGreater, gputypes.CullModeNone, gputypes.FrontFaceCCW},
		{"less", "back", "ccw", gputypes.CompareFunctionLess, gputypes.CullModeBack, gputypes.FrontFaceCCW},
		{"greater-equal", "front", "cw", gputypes.CompareFunctionGreaterEqual, gputypes.CullModeFront, gputypes.FrontFaceCW},
	}
	for _, tt := range tests {
		f, err := parseDepth(tt.depth)
		if err != nil || f != tt.compare {
			t.Errorf("parseDepth(%q) = %v, %v, want %v", tt.depth, f, err, tt.compare)
		}
		mode, face, err := parseCull(tt.cull, tt.front)
		if err != nil || mode != tt.mode || face != tt.face {
			t.Errorf("parseCull(%q, %q) = %v, %v, %v", tt.cull, tt.front, mode, face, err)
		}
	}
}

func TestMarshal(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v", err)
	}
	if len(s.Passes) != 2 || s.Passes[1].Tex.Kind != "checker" || s.Depth != "less" {
		t.Errorf("reparsed scene = %+v", s)
	}
}

func TestTransform_Matrix(t *testing.T) {
	tr := Transform{Translate: [3]float64{1, 0, 0}, RotateY: 90, Scale: 2}
	got := tr.Matrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	want := mgl64.Vec4{1, 0, -2, 1}
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("Matrix() * x = %v, want %v", got, want)
	}
	if id := (Transform{}).Matrix(); id != mgl64.Ident4() {
		t.Errorf("zero Transform = %v, want identity", id)
	}
}

func TestLight(t *testing.T) {
	s := Default()
	if got := s.light(); got.Direction != (mgl64.Vec4{0, 0, 1, 0}) {
		t.Errorf("default light direction = %v", got.Direction)
	}
	s.Light = &LightConfig{Color: [4]float64{1, 1, 1, 1}, Direction: [3]float64{0, 3, 4}}
	if got := s.light(); !got.Direction.ApproxEqualThreshold(mgl64.Vec4{0, 0.6, 0.8, 0}, 1e-12) {
		t.Errorf("light direction = %v, want normalized", got.Direction)
	}
}

func TestTextures(t *testing.T) {
	s := Default()
	tests := []struct {
		name string
		pass PassConfig
		w    int
	}{
		{"phong default", PassConfig{Shader: "phong"}, 1},
		{"ramp default", PassConfig{Shader: "ramp"}, 256},
		{"solid", PassConfig{Shader: "phong", Tex: TextureConfig{Kind: "solid", Colors: [][4]uint8{{1, 2, 3, 4}}}}, 1},
		{"gradient", PassConfig{Shader: "ramp", Tex: TextureConfig{Kind: "gradient", Size: 16}}, 16},
		{"checker", PassConfig{Shader: "phong", Tex: TextureConfig{Kind: "checker", Size: 64}}, 64},
		{"resized", PassConfig{Shader: "ramp", Tex: TextureConfig{Kind: "gradient", Size: 16, Resize: &[2]int{32, 2}}}, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := s.texture(tt.pass, texture.NewCache(0))
			if err != nil {
				t.Fatalf("texture() error = %v", err)
			}
			if tex.Width() != tt.w {
				t.Errorf("Width() = %d, want %d", tex.Width(), tt.w)
			}
		})
	}

	for _, tc := range []TextureConfig{{Kind: "bands"}, {Kind: "plaid"}} {
		if _, err := s.texture(PassConfig{Shader: "ramp", Tex: tc}, texture.NewCache(0)); !errors.Is(err, ErrInvalidScene) {
			t.Errorf("texture(%q) error = %v, want ErrInvalidScene", tc.Kind, err)
		}
	}
}

// small shrinks the default scene so it renders quickly.
func small() *Scene {
	s := Default()
	s.Width, s.Height = 48, 48
	s.Mesh.Sphere = &SphereConfig{Radius: 1, Rings: 8, Segments: 16}
	for i := range s.Passes {
		s.Passes[i].Tex.Size = 16
	}
	return s
}

func TestRender(t *testing.T) {
	s := small()

	var mu sync.Mutex
	last := map[string][2]int{}
	results, err := s.Render(context.Background(),
		WithWorkers(2),
		WithProgress(func(pass string, done, total int) {
			mu.Lock()
			defer mu.Unlock()
			last[pass] = [2]int{done, total}
		}))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	const faces = 16 * (2*8 - 2)
	for i, r := range results {
		if r.Name != s.Passes[i].Name || r.Output != s.Passes[i].Output {
			t.Errorf("result %d = %s/%s, want pass order", i, r.Name, r.Output)
		}
		if r.Stats.Faces != faces {
			t.Errorf("%s: Stats.Faces = %d, want %d", r.Name, r.Stats.Faces, faces)
		}
		if r.Stats.Written == 0 {
			t.Errorf("%s: nothing written", r.Name)
		}
		if a := r.Framebuffer.Texel(24, 24)[3]; a != 255 {
			t.Errorf("%s: center alpha = %d, want 255", r.Name, a)
		}
		if a := r.Framebuffer.Texel(0, 0)[3]; a != 0 {
			t.Errorf("%s: corner alpha = %d, want background", r.Name, a)
		}
		if got := last[r.Name]; got != [2]int{faces, faces} {
			t.Errorf("%s: last progress = %v, want [%d %d]", r.Name, got, faces, faces)
		}
	}
}

func TestRender_Background(t *testing.T) {
	s := small()
	s.Passes = s.Passes[:1]
	s.Passes[0].Background = &[4]float64{0, 0, 1, 1}

	results, err := s.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := results[0].Framebuffer.Texel(0, 0); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("corner = %v, want blue BGRA", got)
	}
}

func TestRender_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := small().Render(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRender_PanicPropagates(t *testing.T) {
	defer func() {
		if r := recover(); r != "pass aborted" {
			t.Errorf("Render() panic = %v, want pass aborted", r)
		}
	}()
	_, err := small().Render(context.Background(), WithWorkers(1),
		WithProgress(func(pass string, done, total int) {
			if pass == "phong" {
				panic("pass aborted")
			}
		}))
	t.Errorf("Render() returned %v after a pass panicked", err)
}

func TestRender_MissingFiles(t *testing.T) {
	s := small()
	s.SetDir(t.TempDir())
	s.Passes[0].Tex = TextureConfig{Path: "missing.png"}
	if _, err := s.Render(context.Background()); err == nil {
		t.Error("Render() with missing texture error = nil")
	}

	s = small()
	s.SetDir(t.TempDir())
	s.Mesh = MeshConfig{OBJ: "missing.obj"}
	if _, err := s.Render(context.Background()); err == nil {
		t.Error("Render() with missing mesh error = nil")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	obj := "v -1 -1 0\nv 1 -1 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(obj), 0o600); err != nil {
		t.Fatal(err)
	}
	src := `
width: 32
height: 32
camera: {position: [0, 0, -3]}
mesh: {obj: tri.obj}
passes:
  - {shader: normals, output: n.png}
`
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	results, err := s.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if st := results[0].Stats; st.Faces != 1 || st.Written == 0 {
		t.Errorf("Stats = %+v, want one face drawn", st)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}
