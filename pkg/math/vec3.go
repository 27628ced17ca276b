// Package math provides the small vector type used by the mesh code.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Load reads the i-th vector from a flat xyz slice.
func Load(s []float32, i int) Vec3 {
	return Vec3{s[3*i], s[3*i+1], s[3*i+2]}
}

// Store writes v as the i-th vector of a flat xyz slice.
func (v Vec3) Store(s []float32, i int) {
	s[3*i] = v.X
	s[3*i+1] = v.Y
	s[3*i+2] = v.Z
}

// AddTo adds v into the i-th vector of a flat xyz slice.
func (v Vec3) AddTo(s []float32, i int) {
	s[3*i] += v.X
	s[3*i+1] += v.Y
	s[3*i+2] += v.Z
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// NormalizeAbove returns v scaled to unit length, or v unchanged when its
// length is below eps.
func (v Vec3) NormalizeAbove(eps float32) Vec3 {
	l := v.Length()
	if l < eps {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Array returns v as an array for uniform uploads.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
