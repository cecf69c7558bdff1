package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/sr3d"
)

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("model: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("model: %s: %w", path, err)
	}
	sr3d.Logger().Debug("model: loaded OBJ",
		"path", path, "vertices", len(m.positions), "faces", len(m.faces))
	return m, nil
}

// ParseOBJ reads Wavefront OBJ geometry from r.
//
// Recognized statements are v, vt, vn and f. Face corners may be written
// v, v/vt, v//vn or v/vt/vn, with 1-based or negative (relative)
// indices. Polygons are split into a triangle fan around their first
// corner. Other statements (groups, materials, smoothing) are skipped.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	p := objParser{mesh: &Mesh{}}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("model: read OBJ: %w", err)
	}
	if len(p.mesh.faces) == 0 {
		return nil, ErrNoFaces
	}
	if p.skipped > 0 {
		sr3d.Logger().Debug("model: skipped unsupported OBJ statements", "count", p.skipped)
	}
	return p.mesh, nil
}

type objParser struct {
	mesh    *Mesh
	line    int
	skipped int
}

func (p *objParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, p.line, fmt.Sprintf(format, args...))
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := p.floats(fields[1:], 3, 4)
		if err != nil {
			return err
		}
		p.mesh.positions = append(p.mesh.positions, mgl64.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := p.floats(fields[1:], 1, 3)
		if err != nil {
			return err
		}
		uv := mgl64.Vec2{v[0], 0}
		if len(v) > 1 {
			uv[1] = v[1]
		}
		p.mesh.texcoords = append(p.mesh.texcoords, uv)
	case "vn":
		v, err := p.floats(fields[1:], 3, 3)
		if err != nil {
			return err
		}
		p.mesh.normals = append(p.mesh.normals, mgl64.Vec3{v[0], v[1], v[2]})
	case "f":
		return p.face(fields[1:])
	default:
		p.skipped++
	}
	return nil
}

func (p *objParser) floats(fields []string, minN, maxN int) ([]float64, error) {
	if len(fields) < minN || len(fields) > maxN {
		return nil, p.errorf("want %d to %d numbers, got %d", minN, maxN, len(fields))
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, p.errorf("bad number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func (p *objParser) face(fields []string) error {
	if len(fields) < 3 {
		return p.errorf("face needs at least 3 corners, got %d", len(fields))
	}
	corners := make([]Corner, len(fields))
	for i, f := range fields {
		c, err := p.corner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	for i := 1; i+1 < len(corners); i++ {
		p.mesh.faces = append(p.mesh.faces, [3]Corner{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

func (p *objParser) corner(s string) (Corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return Corner{}, p.errorf("bad face corner %q", s)
	}
	c := Corner{V: -1, T: -1, N: -1}
	var err error
	if c.V, err = p.index(parts[0], len(p.mesh.positions)); err != nil {
		return Corner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.T, err = p.index(parts[1], len(p.mesh.texcoords)); err != nil {
			return Corner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.N, err = p.index(parts[2], len(p.mesh.normals)); err != nil {
			return Corner{}, err
		}
	}
	return c, nil
}

// index resolves a 1-based or negative OBJ index against n elements
// read so far.
func (p *objParser) index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.errorf("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, p.errorf("index %d out of range [1, %d]", i, n)
}
