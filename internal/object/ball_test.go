package object

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func speedOf(b *Ball) float64 { return math.Hypot(b.DX, b.DY) }

func TestNewBallMovesUpAtSpeed(t *testing.T) {
	b := NewBall(640, 360, 10, 4)
	assert.InDelta(t, 4, speedOf(b), 1e-9)
	assert.Greater(t, b.DX, 0.0)
	assert.Less(t, b.DY, 0.0)
}

func TestPaddleCollisionCentreGoesStraightUp(t *testing.T) {
	p := NewPaddle(640, 690, 190, 20, 8, 1280)
	b := NewBall(640, 690, 10, 4)
	b.DX, b.DY = 0, 4

	require.True(t, b.CheckPaddleCollision(p))
	assert.InDelta(t, 0, b.DX, 1e-9)
	assert.InDelta(t, -4, b.DY, 1e-9)
}

func TestPaddleCollisionEdgeIsStrict(t *testing.T) {
	p := NewPaddle(640, 690, 190, 20, 8, 1280)
	b := NewBall(640+95, 690, 10, 4)
	assert.False(t, b.CheckPaddleCollision(p))

	b.X = 640 + 94
	require.True(t, b.CheckPaddleCollision(p))
	angle := math.Atan2(b.DX, -b.DY)
	assert.InDelta(t, 94.0/95.0*math.Pi/3, angle, 1e-9)
}

func TestWallCollisionOnlyWhenMovingIntoWall(t *testing.T) {
	b := NewBall(5, 300, 10, 4)
	b.DX, b.DY = -4, 0
	require.True(t, b.CheckWallCollision(1280))
	assert.Greater(t, b.DX, 0.0)

	// Still overlapping the wall next tick, but moving away.
	assert.False(t, b.CheckWallCollision(1280))
	assert.Greater(t, b.DX, 0.0)
}

func TestCeilingCollision(t *testing.T) {
	b := NewBall(300, 5, 10, 4)
	dx := b.DX
	require.True(t, b.CheckWallCollision(1280))
	assert.InDelta(t, dx, b.DX, 1e-9)
	assert.Greater(t, b.DY, 0.0)
	assert.InDelta(t, 4, speedOf(b), 1e-9)
}

func TestSplitKeepsSpeedAndPosition(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := NewBall(100, 200, 10, 4)
	seen := map[[2]float64]bool{}
	for range 3 {
		nb := b.Split(rng)
		assert.NotEqual(t, b.ID, nb.ID)
		assert.Equal(t, b.X, nb.X)
		assert.Equal(t, b.Y, nb.Y)
		assert.InDelta(t, b.Speed, speedOf(nb), 1e-9)
		seen[[2]float64{nb.DX, nb.DY}] = true
	}
	assert.Len(t, seen, 3)
}

func TestSpeedEffectsRestoreExactly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewBall(100, 100, 10, rapid.Float64Range(1, 20).Draw(t, "speed"))
		before := b.Speed
		now := Tick(0)

		steps := rapid.IntRange(1, 6).Draw(t, "steps")
		for i := range steps {
			now += Tick(rapid.IntRange(0, 50).Draw(t, "gap"))
			b.Expire(now)
			if rapid.Bool().Draw(t, "slow") {
				b.ApplySlowMotion(now, 100)
			} else {
				b.ApplySpeedUp(now, 100)
			}
			if math.Abs(speedOf(b)-b.Speed) > 1e-9 {
				t.Fatalf("step %d: velocity magnitude %v, speed %v", i, speedOf(b), b.Speed)
			}
		}

		now += 100
		if !b.Expire(now) {
			t.Fatalf("effect should have expired at %d", now)
		}
		if math.Abs(b.Speed-before) > 1e-12 {
			t.Fatalf("speed %v, want %v", b.Speed, before)
		}
		if math.Abs(speedOf(b)-before) > 1e-9 {
			t.Fatalf("velocity magnitude %v, want %v", speedOf(b), before)
		}
	})
}

func TestRetriggerMovesExpiry(t *testing.T) {
	b := NewBall(100, 100, 10, 4)
	b.ApplySlowMotion(0, 10)
	b.ApplySlowMotion(5, 10)

	assert.False(t, b.Expire(10))
	assert.InDelta(t, 3, b.Speed, 1e-12)
	assert.True(t, b.Expire(15))
	assert.InDelta(t, 4, b.Speed, 1e-12)
}

func TestDecreaseSpeedHasNoFloor(t *testing.T) {
	b := NewBall(100, 100, 10, 2)
	dx, dy := b.DX, b.DY

	b.DecreaseSpeed(1.2)
	b.DecreaseSpeed(1.2)
	assert.InDelta(t, -0.4, b.Speed, 1e-12)
	// Negative speed reverses the heading.
	assert.Less(t, b.DX*dx+b.DY*dy, 0.0)
	assert.InDelta(t, 0.4, speedOf(b), 1e-9)
}
