package object

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/tomz197/breakout/internal/physics"
)

// PowerUpKind is the effect a power-up applies when collected.
type PowerUpKind uint8

const (
	MultipleBalls PowerUpKind = iota
	SlowMotion
	ShrinkPaddle
	SpeedUpBall
)

// PowerUpKinds lists every kind in spawn-draw order.
var PowerUpKinds = [...]PowerUpKind{MultipleBalls, SlowMotion, ShrinkPaddle, SpeedUpBall}

func (k PowerUpKind) String() string {
	switch k {
	case MultipleBalls:
		return "MultipleBalls"
	case SlowMotion:
		return "SlowMotion"
	case ShrinkPaddle:
		return "ShrinkPaddle"
	case SpeedUpBall:
		return "SpeedUpBall"
	}
	return fmt.Sprintf("PowerUpKind(%d)", uint8(k))
}

// Valid reports whether k is one of the known kinds.
func (k PowerUpKind) Valid() bool {
	return k <= SpeedUpBall
}

// PowerUp is a collectible that lives for a fixed number of ticks.
type PowerUp struct {
	ID        ID
	Type      PowerUpKind
	X, Y      float64 // centre
	Width     float64
	Height    float64
	Active    bool
	SpawnTick Tick
	ExpiresAt Tick
}

// NewPowerUp creates an active power-up centred at (x, y).
func NewPowerUp(kind PowerUpKind, x, y, width, height float64, now, lifetime Tick) *PowerUp {
	return &PowerUp{
		ID:        NewID(),
		Type:      kind,
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		Active:    true,
		SpawnTick: now,
		ExpiresAt: now + lifetime,
	}
}

func (p *PowerUp) RenderID() ID { return p.ID }
func (p *PowerUp) Kind() Kind   { return KindPowerUp }

func (p *PowerUp) Bounds() (x0, y0, x1, y1 float64) {
	return p.X - p.Width/2, p.Y - p.Height/2, p.X + p.Width/2, p.Y + p.Height/2
}

// Colour tells power-ups (green) from power-downs (red).
func (p *PowerUp) Colour() Colour {
	if p.Type == MultipleBalls || p.Type == SlowMotion {
		return ColourGreen
	}
	return ColourRed
}

// CheckCollision reports whether the ball touches the power-up image.
// Inactive power-ups never collide.
func (p *PowerUp) CheckCollision(b *Ball) bool {
	if !p.Active {
		return false
	}
	reach := b.Radius + math.Max(p.Width, p.Height)/2
	return physics.Distance(p.X, p.Y, b.X, b.Y) < reach
}

// Expired reports whether the power-up has outlived its lifetime.
func (p *PowerUp) Expired(now Tick) bool {
	return now >= p.ExpiresAt
}

// Deactivate removes the power-up from play.
func (p *PowerUp) Deactivate() {
	p.Active = false
}

// EffectTarget is everything a power-up may act on.
type EffectTarget struct {
	Collector   *Ball // ball that touched the power-up
	First       *Ball // first ball in play, target of speed effects
	Paddle      *Paddle
	Rand        *rand.Rand
	Now         Tick
	Duration    Tick    // length of timed effects
	Splits      int     // balls spawned by MultipleBalls
	SplitOffset float64 // upward offset of spawned balls
}

// EffectResult reports what a power-up changed.
type EffectResult struct {
	NewBalls      []*Ball
	BallChanged   *Ball
	PaddleResized bool
}

// Apply activates the power-up on target and deactivates it.
// An inactive power-up has no effect.
func (p *PowerUp) Apply(t EffectTarget) EffectResult {
	var res EffectResult
	if !p.Active {
		return res
	}
	p.Deactivate()

	switch p.Type {
	case MultipleBalls:
		res.NewBalls = make([]*Ball, 0, t.Splits)
		for range t.Splits {
			nb := t.Collector.Split(t.Rand)
			nb.Y -= t.SplitOffset
			res.NewBalls = append(res.NewBalls, nb)
		}
	case SlowMotion:
		t.First.ApplySlowMotion(t.Now, t.Duration)
		res.BallChanged = t.First
	case SpeedUpBall:
		t.First.ApplySpeedUp(t.Now, t.Duration)
		res.BallChanged = t.First
	case ShrinkPaddle:
		t.Paddle.ShrinkPaddle(t.Now, t.Duration)
		res.PaddleResized = true
	}
	return res
}
