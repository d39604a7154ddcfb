package object

import (
	"math"

	"github.com/tomz197/breakout/internal/physics"
)

// Paddle is the player-controlled bar. X, Y is its centre.
// The paddle never leaves [0, FieldWidth] horizontally.
type Paddle struct {
	ID         ID
	X, Y       float64
	Width      float64
	Height     float64
	BaseWidth  float64 // width without the timed shrink
	Speed      float64
	FieldWidth float64
	Shrink     EffectSlot
}

// NewPaddle creates a paddle centred at (x, y) inside a field of the given width.
func NewPaddle(x, y, width, height, speed, fieldWidth float64) *Paddle {
	p := &Paddle{
		ID:         NewID(),
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		BaseWidth:  width,
		Speed:      speed,
		FieldWidth: fieldWidth,
	}
	p.clamp()
	return p
}

func (p *Paddle) RenderID() ID   { return p.ID }
func (p *Paddle) Kind() Kind     { return KindPaddle }
func (p *Paddle) Colour() Colour { return ColourBlue }

func (p *Paddle) Bounds() (x0, y0, x1, y1 float64) {
	return p.X - p.Width/2, p.Y - p.Height/2, p.X + p.Width/2, p.Y + p.Height/2
}

// MoveLeft shifts the paddle left by its speed.
func (p *Paddle) MoveLeft() {
	p.X -= p.Speed
	p.clamp()
}

// MoveRight shifts the paddle right by its speed.
func (p *Paddle) MoveRight() {
	p.X += p.Speed
	p.clamp()
}

// SetPosition places the paddle centre at (x, y).
func (p *Paddle) SetPosition(x, y float64) {
	p.X = x
	p.Y = y
	p.clamp()
}

// ShrinkPaddle halves the width for ticks. Re-arming restarts the countdown
// without shrinking further.
func (p *Paddle) ShrinkPaddle(now, ticks Tick) {
	p.Width = math.Floor(p.BaseWidth / 2)
	p.Shrink.Arm(now, ticks)
	p.clamp()
}

// ResetPowerupEffect restores the width held before the shrink.
func (p *Paddle) ResetPowerupEffect() {
	p.Width = p.BaseWidth
	p.Shrink.Cancel()
	p.clamp()
}

// Expire ends the shrink if its deadline has been reached.
func (p *Paddle) Expire(now Tick) bool {
	if !p.Shrink.Due(now) {
		return false
	}
	p.ResetPowerupEffect()
	return true
}

// IncreaseSpeed permanently raises the paddle speed.
func (p *Paddle) IncreaseSpeed(delta float64) {
	p.Speed += delta
}

// IncreaseSize permanently scales the paddle width.
func (p *Paddle) IncreaseSize(factor float64) {
	p.BaseWidth *= factor
	p.Width *= factor
	p.clamp()
}

// ReduceWidth permanently divides the base width, flooring the result.
func (p *Paddle) ReduceWidth(divisor float64) {
	p.BaseWidth = math.Floor(p.BaseWidth / divisor)
	if p.Shrink.Armed {
		p.Width = math.Floor(p.BaseWidth / 2)
	} else {
		p.Width = p.BaseWidth
	}
	p.clamp()
}

func (p *Paddle) clamp() {
	half := p.Width / 2
	if p.Width >= p.FieldWidth {
		p.X = p.FieldWidth / 2
		return
	}
	p.X = physics.Clamp(p.X, half, p.FieldWidth-half)
}
