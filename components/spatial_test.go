package components

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestVectorHeadingWraps(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want float64
	}{
		{"in range", 45, 45},
		{"negative", -90, 270},
		{"over a turn", 450, 90},
		{"exact turn", 360, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVector(1, tt.deg)
			if math.Abs(v.Heading()-tt.want) > eps {
				t.Errorf("Heading() = %v, want %v", v.Heading(), tt.want)
			}
			if r := v.HeadingRadians(); r < 0 || r >= 2*math.Pi {
				t.Errorf("HeadingRadians() = %v, outside [0, 2π)", r)
			}
		})
	}
}

func TestVectorComponents(t *testing.T) {
	v := NewVector(2, 90)
	if math.Abs(v.X()) > eps || math.Abs(v.Y()-2) > eps {
		t.Errorf("(X, Y) = (%v, %v), want (0, 2)", v.X(), v.Y())
	}
}

func TestVectorAddSameHeading(t *testing.T) {
	for _, h := range []float64{0, 33, 90, 181, 359} {
		a := NewVector(1.5, h)
		b := NewVector(2.5, h)
		sum := a.Add(b)
		if math.Abs(sum.Speed()-4) > 1e-9 {
			t.Errorf("heading %v: speed = %v, want 4", h, sum.Speed())
		}
		if angularDiff(sum.Heading(), h) > 1e-6 {
			t.Errorf("heading %v: got heading %v", h, sum.Heading())
		}
	}
}

func TestVectorAddOpposite(t *testing.T) {
	for _, h := range []float64{0, 45, 120, 270} {
		a := NewVector(3, h)
		b := NewVector(3, h+180)
		if s := a.Add(b).Speed(); math.Abs(s) > 1e-9 {
			t.Errorf("heading %v: opposite sum speed = %v, want 0", h, s)
		}
	}
}

func TestVectorSetX(t *testing.T) {
	v := NewVector(1, 90) // (0, 1)
	v.SetX(1)
	if math.Abs(v.Speed()-math.Sqrt2) > eps {
		t.Errorf("Speed() = %v, want √2", v.Speed())
	}
	if math.Abs(v.Heading()-45) > 1e-9 {
		t.Errorf("Heading() = %v, want 45", v.Heading())
	}

	// No vertical component: the heading can only be 0° or 180°.
	w := NewVector(0, 123)
	w.SetX(-2)
	if math.Abs(w.Heading()-180) > 1e-9 || math.Abs(w.Speed()-2) > eps {
		t.Errorf("got speed %v heading %v, want 2 at 180", w.Speed(), w.Heading())
	}
}

func TestLocationAngleTo(t *testing.T) {
	a := Location{X: 0, Y: 0}
	b := Location{X: 0, Y: 5}
	if got := a.AngleTo(b); math.Abs(got-90) > eps {
		t.Errorf("AngleTo = %v, want 90", got)
	}
	if got := a.DistanceTo(b); got != 5 {
		t.Errorf("DistanceTo = %v, want 5", got)
	}
}

// angularDiff is the absolute heading difference in degrees, wrap-aware.
func angularDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
