package model

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere returns a UV sphere centered at the origin. rings is the number
// of latitude bands (at least 2) and segments the number of longitude
// bands (at least 3). Faces wind counter-clockwise seen from outside.
func Sphere(radius float64, rings, segments int) (*Mesh, error) {
	if rings < 2 || segments < 3 {
		return nil, fmt.Errorf("model: sphere needs at least 2 rings and 3 segments, got %d and %d", rings, segments)
	}

	m := &Mesh{}
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		for j := 0; j <= segments; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			n := mgl64.Vec3{
				math.Sin(theta) * math.Cos(phi),
				math.Cos(theta),
				math.Sin(theta) * math.Sin(phi),
			}
			m.positions = append(m.positions, n.Mul(radius))
			m.normals = append(m.normals, n)
			m.texcoords = append(m.texcoords, mgl64.Vec2{
				float64(j) / float64(segments),
				1 - float64(i)/float64(rings),
			})
		}
	}

	stride := segments + 1
	at := func(i, j int) Corner {
		k := i*stride + j
		return Corner{V: k, T: k, N: k}
	}
	for i := range rings {
		for j := range segments {
			a, b, c, d := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
			if i > 0 {
				m.faces = append(m.faces, [3]Corner{a, d, c})
			}
			if i < rings-1 {
				m.faces = append(m.faces, [3]Corner{a, c, b})
			}
		}
	}
	return m, nil
}

// Triangle returns a single-face mesh with texcoords (0,0), (1,0), (0,1)
// and the face normal at every corner.
func Triangle(a, b, c mgl64.Vec3) *Mesh {
	m := &Mesh{
		positions: []mgl64.Vec3{a, b, c},
		texcoords: []mgl64.Vec2{{0, 0}, {1, 0}, {0, 1}},
		faces: [][3]Corner{{
			{V: 0, T: 0, N: -1},
			{V: 1, T: 1, N: -1},
			{V: 2, T: 2, N: -1},
		}},
	}
	return m
}

// Quad returns a square of side 2 in the z = 0 plane facing +Z, split
// into two triangles, with texcoords spanning [0, 1].
func Quad() *Mesh {
	m := &Mesh{
		positions: []mgl64.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		texcoords: []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		normals:   []mgl64.Vec3{{0, 0, 1}},
	}
	c := func(i int) Corner { return Corner{V: i, T: i, N: 0} }
	m.faces = [][3]Corner{{c(0), c(1), c(2)}, {c(0), c(2), c(3)}}
	return m
}
