package sr3d

import "github.com/go-gl/mathgl/mgl64"

// worldUp is the reference up axis used to derive a camera basis.
var worldUp = mgl64.Vec3{0, 1, 0}

// Point extends a 3D position to homogeneous coordinates (w = 1).
func Point(v mgl64.Vec3) mgl64.Vec4 {
	return v.Vec4(1)
}

// Direction extends a 3D direction to homogeneous coordinates (w = 0),
// so that translations do not affect it.
func Direction(v mgl64.Vec3) mgl64.Vec4 {
	return v.Vec4(0)
}

// MulElem3 returns the component-wise product of two vectors.
// Used for modulating colors, e.g. light color times albedo.
func MulElem3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Interpolate returns the barycentric combination w[0]*a + w[1]*b + w[2]*c.
func Interpolate(a, b, c mgl64.Vec4, w mgl64.Vec3) mgl64.Vec4 {
	var r mgl64.Vec4
	for i := range r {
		r[i] = a[i]*w[0] + b[i]*w[1] + c[i]*w[2]
	}
	return r
}

// interpolate returns the weighted sum of three scalars.
func interpolate(vals, w mgl64.Vec3) float64 {
	return vals[0]*w[0] + vals[1]*w[1] + vals[2]*w[2]
}
