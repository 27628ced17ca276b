// Package lighting provides the moving point light used to shade the face.
package lighting

import (
	"math"
	"time"
)

// Orbit moves a point light on a horizontal circle around the frame.
// Positions are in the normalized frame space the shader lights in.
type Orbit struct {
	Radius float64 // circle radius
	Height float64 // fixed z of the light
	Speed  float64 // angular rate in radians per second
}

// DefaultOrbit returns the orbit used when nothing is configured.
func DefaultOrbit() Orbit {
	return Orbit{Radius: 4, Height: 1.5, Speed: 3}
}

// Position returns the light position t after the start of rendering:
// (R·sin(S·t), R·cos(S·t), H).
func (o Orbit) Position(t time.Duration) [3]float32 {
	angle := o.Speed * t.Seconds()
	return [3]float32{
		float32(o.Radius * math.Sin(angle)),
		float32(o.Radius * math.Cos(angle)),
		float32(o.Height),
	}
}

// Period returns the time of one revolution, or 0 for a still light.
func (o Orbit) Period() time.Duration {
	if o.Speed == 0 {
		return 0
	}
	return time.Duration(2 * math.Pi / math.Abs(o.Speed) * float64(time.Second))
}
