package object

import (
	"math"
	"math/rand/v2"

	"github.com/tomz197/breakout/internal/physics"
)

// Speed multipliers of the timed ball effects.
const (
	SlowMotionFactor = 0.75
	SpeedUpFactor    = 1.5
)

// Ball is a moving circle. Speed is always BaseSpeed scaled by the active
// effect factor, and |(DX, DY)| == Speed outside of a reflection.
type Ball struct {
	ID        ID
	X, Y      float64
	Radius    float64
	DX, DY    float64
	Speed     float64
	BaseSpeed float64
	Factor    float64    // multiplier of the active timed effect, 1 when none
	Effect    EffectSlot // speed-effect expiry
}

// NewBall creates a ball launched up and to the right at the given speed.
func NewBall(x, y, radius, speed float64) *Ball {
	dx, dy := physics.Rescale(speed, -2, speed)
	return &Ball{
		ID:        NewID(),
		X:         x,
		Y:         y,
		Radius:    radius,
		DX:        dx,
		DY:        dy,
		Speed:     speed,
		BaseSpeed: speed,
		Factor:    1,
	}
}

func (b *Ball) RenderID() ID { return b.ID }
func (b *Ball) Kind() Kind   { return KindBall }

func (b *Ball) Colour() Colour { return ColourWhite }

func (b *Ball) Bounds() (x0, y0, x1, y1 float64) {
	return b.X - b.Radius, b.Y - b.Radius, b.X + b.Radius, b.Y + b.Radius
}

// Move advances the ball by its velocity. Bounds are handled by the collision checks.
func (b *Ball) Move() {
	b.X += b.DX
	b.Y += b.DY
}

// SetPosition places the ball centre at (x, y).
func (b *Ball) SetPosition(x, y float64) {
	b.X = x
	b.Y = y
}

// CheckPaddleCollision bounces the ball off p when its centre is strictly inside
// the paddle. The outgoing angle fans from vertical by up to ±60° with the hit offset.
func (b *Ball) CheckPaddleCollision(p *Paddle) bool {
	x0, y0, x1, y1 := p.Bounds()
	if !physics.PointStrictlyInRect(b.X, b.Y, x0, y0, x1, y1) {
		return false
	}
	relative := (b.X - p.X) / (p.Width / 2)
	b.DX, b.DY = physics.PaddleReflection(relative, b.Speed)
	return true
}

// CheckWallCollision mirrors the velocity off the side walls and the ceiling.
// A wall only reflects a ball travelling into it, so a ball still overlapping
// the wall on the next tick is not turned back into it. The bottom edge is open.
func (b *Ball) CheckWallCollision(fieldWidth float64) bool {
	hit := false
	if (b.X-b.Radius <= 0 && b.DX < 0) || (b.X+b.Radius >= fieldWidth && b.DX > 0) {
		b.DX, b.DY = physics.MirrorSideWall(b.DX, b.DY, b.Speed)
		hit = true
	}
	if b.Y-b.Radius <= 0 && b.DY < 0 {
		b.DX, b.DY = physics.MirrorCeiling(b.DX, b.DY, b.Speed)
		hit = true
	}
	return hit
}

// Fallen reports whether the ball has passed the open bottom edge.
func (b *Ball) Fallen(fieldHeight float64) bool {
	return b.Y >= fieldHeight
}

// Split returns a new ball at the same position with the same speed and radius,
// heading in a uniformly random direction. A pending speed effect is inherited.
func (b *Ball) Split(rng *rand.Rand) *Ball {
	angle := rng.Float64() * 2 * math.Pi
	nb := *b
	nb.ID = NewID()
	nb.DX = b.Speed * math.Cos(angle)
	nb.DY = -b.Speed * math.Sin(angle)
	return &nb
}

// ApplySlowMotion slows the ball for ticks. Re-arming replaces any running effect.
func (b *Ball) ApplySlowMotion(now, ticks Tick) {
	b.applyFactor(SlowMotionFactor, now, ticks)
}

// ApplySpeedUp speeds the ball up for ticks. Re-arming replaces any running effect.
func (b *Ball) ApplySpeedUp(now, ticks Tick) {
	b.applyFactor(SpeedUpFactor, now, ticks)
}

func (b *Ball) applyFactor(factor float64, now, ticks Tick) {
	b.Factor = factor
	b.Effect.Arm(now, ticks)
	b.setSpeed(b.BaseSpeed * factor)
}

// ResetPowerupEffect restores the speed held before the timed effect.
func (b *Ball) ResetPowerupEffect() {
	b.Factor = 1
	b.Effect.Cancel()
	b.setSpeed(b.BaseSpeed)
}

// Expire ends the speed effect if its deadline has been reached.
func (b *Ball) Expire(now Tick) bool {
	if !b.Effect.Due(now) {
		return false
	}
	b.ResetPowerupEffect()
	return true
}

// IncreaseSpeed permanently raises the base speed.
func (b *Ball) IncreaseSpeed(delta float64) {
	b.BaseSpeed += delta
	b.setSpeed(b.BaseSpeed * b.Factor)
}

// DecreaseSpeed permanently lowers the base speed. There is no floor: repeated
// calls reach zero and then reverse the ball.
func (b *Ball) DecreaseSpeed(delta float64) {
	b.IncreaseSpeed(-delta)
}

// setSpeed rescales the velocity to the new speed along the ball's heading.
// A negative speed points the velocity against the heading.
func (b *Ball) setSpeed(speed float64) {
	dx, dy := b.DX, b.DY
	if b.Speed < 0 {
		dx, dy = -dx, -dy
	}
	b.DX, b.DY = physics.Rescale(dx, dy, speed)
	b.Speed = speed
}
