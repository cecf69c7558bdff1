package texture

import (
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, dir, name string, c color.NRGBA) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, Solid(c).ToImage()); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCache_Load(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", red)

	c := NewCache(0)
	a, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	b, err := c.Load(filepath.Join(dir, ".", "red.png"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if a != b {
		t.Error("second Load() returned a different texture")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 1, 1", hits, misses)
	}
}

func TestCache_FailuresNotCached(t *testing.T) {
	c := NewCache(0)
	missing := filepath.Join(t.TempDir(), "missing.png")
	for range 2 {
		if _, err := c.Load(missing); err == nil {
			t.Fatal("Load(missing) error = nil")
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if _, misses := c.Stats(); misses != 2 {
		t.Errorf("misses = %d, want 2", misses)
	}
}

func TestCache_Evicts(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(4)

	paths := make([]string, 5)
	for i := range paths {
		paths[i] = writePNG(t, dir, fmt.Sprintf("%d.png", i), blue)
	}
	for _, p := range paths[:4] {
		if _, err := c.Load(p); err != nil {
			t.Fatal(err)
		}
	}
	// Touch the first so it survives eviction.
	if _, err := c.Load(paths[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(paths[4]); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 after eviction", c.Len())
	}
	_, before := c.Stats()
	if _, err := c.Load(paths[0]); err != nil {
		t.Fatal(err)
	}
	if _, after := c.Stats(); after != before {
		t.Error("recently used texture was evicted")
	}
}
