package geom

import "math"

// DistanceSq returns the squared distance between two points.
func DistanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSq(x1, y1, x2, y2))
}

// RadiusFromArea treats size as the area of a circle and returns its radius.
func RadiusFromArea(area float64) float64 {
	if area <= 0 {
		return 0
	}
	return math.Sqrt(area / math.Pi)
}

// CirclesOverlap reports whether two circles whose centers are dist apart
// overlap. Circles that only touch do not overlap.
func CirclesOverlap(dist, r1, r2 float64) bool {
	return dist < r1+r2
}
