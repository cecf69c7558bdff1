package scene

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/sr3d"
	"github.com/gogpu/sr3d/internal/parallel"
	"github.com/gogpu/sr3d/texture"
)

// Result is the outcome of one pass.
type Result struct {
	Name        string
	Output      string
	Framebuffer *sr3d.Framebuffer
	Stats       sr3d.Stats
}

// RenderOption configures Render.
type RenderOption func(*renderOptions)

type renderOptions struct {
	workers  int
	progress func(pass string, done, total int)
}

// WithWorkers sets the number of passes rendered at once. Zero or
// negative uses GOMAXPROCS.
func WithWorkers(n int) RenderOption {
	return func(o *renderOptions) { o.workers = n }
}

// WithProgress registers a callback receiving per-pass face progress.
// It is called concurrently from the passes being rendered.
func WithProgress(fn func(pass string, done, total int)) RenderOption {
	return func(o *renderOptions) { o.progress = fn }
}

// Render draws every pass of the scene and returns the results in pass
// order. The mesh and textures are loaded once and shared read-only.
// Each pass gets its own camera, shader, pipeline and framebuffer.
func (s *Scene) Render(ctx context.Context, opts ...RenderOption) ([]Result, error) {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	mesh, err := s.loadMesh()
	if err != nil {
		return nil, err
	}
	base, err := s.pipelineOptions()
	if err != nil {
		return nil, err
	}

	// Shaders hold per-pass state, so each pass builds its own. Texture
	// errors surface before any rendering starts.
	cache := texture.NewCache(0)
	passShaders := make([]sr3d.Shader, len(s.Passes))
	for i, p := range s.Passes {
		if passShaders[i], err = s.shader(p, cache); err != nil {
			return nil, err
		}
	}

	light := s.light()
	modelMat := s.Mesh.Transform.Matrix()
	results := make([]Result, len(s.Passes))
	var progressMu sync.Mutex

	jobs := make([]parallel.Job, len(s.Passes))
	for i, p := range s.Passes {
		jobs[i] = func(ctx context.Context) error {
			fb := sr3d.NewFramebuffer(s.Width, s.Height)
			if bg := p.Background; bg != nil {
				fb.Clear(gputypes.Color{R: bg[0], G: bg[1], B: bg[2], A: bg[3]})
			}

			popts := base
			if o.progress != nil {
				popts = append(popts[:len(popts):len(popts)], sr3d.WithProgress(func(done, total int) {
					progressMu.Lock()
					defer progressMu.Unlock()
					o.progress(p.Name, done, total)
				}))
			}

			stats := sr3d.NewPipeline(popts...).Render(sr3d.Pass{
				Mesh:   mesh,
				Target: fb,
				Shader: passShaders[i],
				Camera: s.camera(),
				Light:  light,
				Model:  modelMat,
			})
			results[i] = Result{Name: p.Name, Output: p.Output, Framebuffer: fb, Stats: stats}
			return nil
		}
	}

	pool := parallel.NewWorkerPool(o.workers)
	defer pool.Close()
	if err := pool.Run(ctx, jobs); err != nil {
		return nil, fmt.Errorf("scene: render: %w", err)
	}

	sr3d.Logger().Debug("scene: rendered", "passes", len(results), "faces", mesh.FaceCount())
	return results, nil
}
