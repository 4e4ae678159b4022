package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vivarium/geom"
)

// Location is an entity's world position.
type Location struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance to another location.
func (l Location) DistanceTo(o Location) float64 {
	return geom.Distance(l.X, l.Y, o.X, o.Y)
}

// AngleTo returns the heading in degrees from l towards o.
func (l Location) AngleTo(o Location) float64 {
	return geom.AngleTo(l.X, l.Y, o.X, o.Y)
}

// Vector is a speed and heading pair. The heading is stored in radians and
// is always kept within [0, 2π); speed may be negative for reverse motion.
type Vector struct {
	speed   float64
	heading float64
}

// NewVector creates a vector from a speed and a heading in degrees.
func NewVector(speed, headingDeg float64) Vector {
	return Vector{speed: speed, heading: geom.ToRadians(headingDeg)}
}

// Speed returns the signed magnitude.
func (v Vector) Speed() float64 { return v.speed }

// SetSpeed sets the signed magnitude.
func (v *Vector) SetSpeed(s float64) { v.speed = s }

// Heading returns the heading in degrees, within [0, 360).
func (v Vector) Heading() float64 { return geom.ToDegrees(v.heading) }

// HeadingRadians returns the heading in radians, within [0, 2π).
func (v Vector) HeadingRadians() float64 { return v.heading }

// SetHeading sets the heading from degrees; any value wraps into range.
func (v *Vector) SetHeading(deg float64) { v.heading = geom.ToRadians(deg) }

// SetHeadingRadians sets the heading from radians; any value wraps into range.
func (v *Vector) SetHeadingRadians(rad float64) { v.heading = geom.NormalizeRadians(rad) }

// X returns the horizontal component.
func (v Vector) X() float64 { return v.speed * math.Cos(v.heading) }

// Y returns the vertical component.
func (v Vector) Y() float64 { return v.speed * math.Sin(v.heading) }

// SetX replaces the horizontal component and recomputes speed and heading
// from the current vertical component. With both components zero the
// heading collapses to 0°, so the previous direction is lost.
func (v *Vector) SetX(x float64) { v.setCartesian(r2.Vec{X: x, Y: v.Y()}) }

// SetY replaces the vertical component. See SetX for the zero case.
func (v *Vector) SetY(y float64) { v.setCartesian(r2.Vec{X: v.X(), Y: y}) }

// Add returns the vector sum of v and o.
func (v Vector) Add(o Vector) Vector {
	var out Vector
	out.setCartesian(r2.Add(v.cartesian(), o.cartesian()))
	return out
}

// Scale returns v with its speed multiplied by f. The heading is kept.
func (v Vector) Scale(f float64) Vector {
	v.speed *= f
	return v
}

func (v Vector) cartesian() r2.Vec {
	return r2.Vec{X: v.X(), Y: v.Y()}
}

func (v *Vector) setCartesian(c r2.Vec) {
	v.speed = r2.Norm(c)
	v.heading = geom.NormalizeRadians(math.Atan2(c.Y, c.X))
}
