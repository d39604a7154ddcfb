// Package physics provides collision detection, distance and reflection utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSquared(x1, y1, x2, y2))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// PointInRect reports whether (px, py) lies inside the rectangle, edges included.
func PointInRect(px, py, x0, y0, x1, y1 float64) bool {
	return x0 <= px && px <= x1 && y0 <= py && py <= y1
}

// PointStrictlyInRect reports whether (px, py) lies inside the rectangle, edges excluded.
func PointStrictlyInRect(px, py, x0, y0, x1, y1 float64) bool {
	return x0 < px && px < x1 && y0 < py && py < y1
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
