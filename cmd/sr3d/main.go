// Command sr3d renders a scene with the sr3d software rasterizer.
//
// Usage:
//
//	sr3d [-scene file.yaml] [-out dir] [-label] [-progress] [-workers n] [-v]
//
// Without -scene the built-in scene is rendered: a sphere shaded once
// with a ramp and once with Phong lighting.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/sr3d"
	"github.com/gogpu/sr3d/internal/overlay"
	"github.com/gogpu/sr3d/scene"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sr3d:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		scenePath = flag.String("scene", "", "scene file (YAML); empty renders the built-in scene")
		outDir    = flag.String("out", ".", "output directory")
		label     = flag.Bool("label", false, "caption each image with its pass name")
		progress  = flag.Bool("progress", true, "show a progress bar")
		workers   = flag.Int("workers", 0, "passes rendered at once (0 = GOMAXPROCS)")
		dump      = flag.Bool("dump", false, "print the effective scene as YAML and exit")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	sr3d.SetLogger(logger)

	s := scene.Default()
	if *scenePath != "" {
		var err error
		if s, err = scene.Load(*scenePath); err != nil {
			return err
		}
	}
	if *dump {
		data, err := s.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []scene.RenderOption{scene.WithWorkers(*workers)}
	if *progress {
		bar := newBar(len(s.Passes))
		defer func() { _ = bar.bar.Finish() }()
		opts = append(opts, scene.WithProgress(bar.update))
	}

	results, err := s.Render(ctx, opts...)
	if err != nil {
		return err
	}

	var captioner *overlay.Captioner
	if *label {
		if captioner, err = overlay.New(float64(max(12, s.Height/40))); err != nil {
			return err
		}
		defer func() { _ = captioner.Close() }()
	}

	for _, r := range results {
		img := r.Framebuffer.ToImage()
		if captioner != nil {
			captioner.Draw(img, r.Name)
		}
		path := filepath.Join(*outDir, r.Output)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := sr3d.SaveImage(path, img); err != nil {
			return err
		}
		logger.Info("wrote image",
			"pass", r.Name,
			"path", path,
			"faces", r.Stats.Faces,
			"discarded", r.Stats.Discarded,
			"written", r.Stats.Written)
	}
	return nil
}

// passBar folds per-pass face progress into one bar.
type passBar struct {
	bar    *progressbar.ProgressBar
	done   map[string]int
	totals map[string]int
}

func newBar(passes int) *passBar {
	return &passBar{
		bar: progressbar.NewOptions(0,
			progressbar.OptionSetDescription(fmt.Sprintf("rendering %d passes", passes)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		),
		done:   make(map[string]int),
		totals: make(map[string]int),
	}
}

// update is called serially by scene.Render.
func (b *passBar) update(pass string, done, total int) {
	if _, seen := b.totals[pass]; !seen {
		b.totals[pass] = total
		sum := 0
		for _, t := range b.totals {
			sum += t
		}
		b.bar.ChangeMax(sum)
	}
	b.done[pass] = done
	sum := 0
	for _, d := range b.done {
		sum += d
	}
	_ = b.bar.Set(sum)
}
