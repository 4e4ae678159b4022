// Package geom provides the pure 2D math used by the simulation kernel.
//
// Angles exposed to callers are in degrees, measured from the +X axis
// towards +Y. With screen coordinates (+Y down) 90° points down.
package geom

import "math"

const twoPi = 2 * math.Pi

// Wall normals accepted by ReflectionAngle for axis-aligned walls.
const (
	NormalTop    = 0.0
	NormalLeft   = 90.0
	NormalBottom = 180.0
	NormalRight  = 270.0
)

// ToRadians converts degrees to radians normalized into [0, 2π).
func ToRadians(deg float64) float64 {
	return NormalizeRadians(deg * math.Pi / 180)
}

// ToDegrees converts radians to degrees. No normalization is applied.
func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeRadians wraps an angle into [0, 2π).
func NormalizeRadians(rad float64) float64 {
	rad = math.Mod(rad, twoPi)
	if rad < 0 {
		rad += twoPi
	}
	// -tiny + 2π rounds to 2π.
	if rad >= twoPi {
		rad = 0
	}
	return rad
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// AngleTo returns the heading in degrees from (ox, oy) towards (tx, ty),
// in [0, 360).
func AngleTo(ox, oy, tx, ty float64) float64 {
	return ToDegrees(NormalizeRadians(math.Atan2(ty-oy, tx-ox)))
}

// AngularDistance returns the smallest difference between two headings,
// in degrees within [0, 180].
func AngularDistance(a, b float64) float64 {
	d := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ReflectionAngle mirrors an incidence heading off a wall with the given
// normal: (2·normal − incidence) mod 360.
func ReflectionAngle(normal, incidence float64) float64 {
	return NormalizeDegrees(2*normal - incidence)
}
