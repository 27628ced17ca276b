package lighting

import (
	"math"
	"testing"
	"time"
)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func TestOrbitStart(t *testing.T) {
	got := DefaultOrbit().Position(0)
	want := [3]float32{0, 4, 1.5}
	if got != want {
		t.Errorf("Position(0) = %v, want %v", got, want)
	}
}

func TestOrbitPeriodicity(t *testing.T) {
	o := DefaultOrbit()
	start := o.Position(0)

	// 3·t sweeps 2π after 2π/3 seconds.
	for _, t0 := range []float64{0, 0.25, 1.7} {
		a := o.Position(seconds(t0))
		b := o.Position(seconds(t0 + 2*math.Pi/3))
		for i := 0; i < 3; i++ {
			if math.Abs(float64(a[i]-b[i])) > 1e-4 {
				t.Errorf("t0=%v: component %d differs after one period: %v vs %v", t0, i, a, b)
			}
		}
	}

	// Half a period later the light is on the opposite side.
	half := o.Position(seconds(math.Pi / 3))
	if math.Abs(float64(half[0]-start[0])) > 1e-4 || math.Abs(float64(half[1]+start[1])) > 1e-4 {
		t.Errorf("Position(π/3) = %v, want (0, -4, 1.5)", half)
	}
}

func TestOrbitRadiusAndHeight(t *testing.T) {
	o := DefaultOrbit()
	for _, s := range []float64{0.1, 0.9, 3.3, 12} {
		p := o.Position(seconds(s))
		r := math.Hypot(float64(p[0]), float64(p[1]))
		if math.Abs(r-4) > 1e-4 {
			t.Errorf("radius at %vs = %v, want 4", s, r)
		}
		if p[2] != 1.5 {
			t.Errorf("height at %vs = %v, want 1.5", s, p[2])
		}
	}
}

func TestOrbitPeriod(t *testing.T) {
	want := seconds(2 * math.Pi / 3)
	if got := DefaultOrbit().Period(); (got - want).Abs() > time.Microsecond {
		t.Errorf("Period = %v, want %v", got, want)
	}
	if got := (Orbit{Radius: 1}).Period(); got != 0 {
		t.Errorf("still light Period = %v, want 0", got)
	}
}
