package physics

import "math"

// MaxPaddleAngle is the widest outgoing angle from vertical after a paddle hit.
const MaxPaddleAngle = 60 * math.Pi / 180

// VelocityFromAngle returns the velocity of magnitude speed pointing along angle.
func VelocityFromAngle(angle, speed float64) (dx, dy float64) {
	return speed * math.Cos(angle), speed * math.Sin(angle)
}

// PaddleReflection computes the outgoing velocity for a ball hitting a paddle.
// relative is the hit offset from the paddle centre in half-widths; it is
// clamped to [-1, 1] so the bounce never leaves the ±60° fan.
func PaddleReflection(relative, speed float64) (dx, dy float64) {
	angle := Clamp(relative, -1, 1) * MaxPaddleAngle
	return speed * math.Sin(angle), -speed * math.Cos(angle)
}

// MirrorSideWall reflects a velocity off a vertical wall, keeping magnitude speed.
func MirrorSideWall(dx, dy, speed float64) (float64, float64) {
	return VelocityFromAngle(math.Pi-math.Atan2(dy, dx), speed)
}

// MirrorCeiling reflects a velocity off a horizontal wall, keeping magnitude speed.
func MirrorCeiling(dx, dy, speed float64) (float64, float64) {
	return VelocityFromAngle(-math.Atan2(dy, dx), speed)
}

// Rescale returns (dx, dy) stretched to magnitude |speed|, keeping direction.
// A negative speed reverses the direction. A zero vector points straight up.
func Rescale(dx, dy, speed float64) (float64, float64) {
	mag := math.Hypot(dx, dy)
	if mag == 0 {
		return 0, -speed
	}
	k := speed / mag
	return dx * k, dy * k
}
