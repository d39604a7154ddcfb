package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/object"
)

func newTestSim(t *testing.T, mutate func(*config.Config)) *Simulation {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())
	return New(cfg, Options{PlayerName: "tester", StartLevel: 1, Seed: 42})
}

func noPowerUps(c *config.Config) { c.PowerUps.Enabled = false }

// aim places the ball so that its next move lands on (x, y).
func aim(b *object.Ball, x, y float64) {
	b.X = x - b.DX
	b.Y = y - b.DY
}

func TestNewGameLayout(t *testing.T) {
	s := newTestSim(t, nil)

	assert.Len(t, s.Blocks(), 18)
	assert.Len(t, s.MovingBlocks(), 1)
	require.Len(t, s.Balls(), 1)
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, 0, s.Score())
	assert.False(t, s.Started())

	p := s.Paddle()
	assert.Equal(t, 640.0, p.X)
	assert.Equal(t, 690.0, p.Y)
	assert.Equal(t, 190.0, p.Width)

	for _, b := range s.Blocks() {
		assert.Equal(t, 1, b.Damage)
		assert.InDelta(t, 1280.0/6, b.X1-b.X0, 1e-9)
	}
	mb := s.MovingBlocks()[0]
	assert.GreaterOrEqual(t, mb.Y0, 280.0)
	assert.LessOrEqual(t, mb.Y0, 450.0)
	assert.Equal(t, 80.0, mb.X1-mb.X0)
}

func TestNothingMovesBeforeStart(t *testing.T) {
	s := newTestSim(t, nil)
	b := s.Balls()[0]
	x, y := b.X, b.Y

	r := s.Tick()
	assert.Equal(t, x, b.X)
	assert.Equal(t, y, b.Y)
	assert.Empty(t, r.Render)
	assert.Equal(t, object.Tick(1), r.Tick)

	s.MoveLeft()
	assert.Equal(t, 640.0, s.Paddle().X)

	s.Start()
	s.Tick()
	assert.NotEqual(t, y, b.Y)
}

func TestPauseFreezesWorld(t *testing.T) {
	s := newTestSim(t, noPowerUps)
	s.Start()
	s.TogglePause()
	b := s.Balls()[0]
	y := b.Y

	r := s.Tick()
	assert.True(t, r.Paused)
	assert.Equal(t, y, b.Y)

	s.MoveRight()
	assert.Equal(t, 640.0, s.Paddle().X)

	s.TogglePause()
	s.MoveRight()
	assert.Equal(t, 648.0, s.Paddle().X)
}

func TestClearingAllBlocksAdvancesLevel(t *testing.T) {
	s := newTestSim(t, noPowerUps)
	s.moving = nil
	s.Start()
	ball := s.Balls()[0]

	maxScore := 0
	for range 3 {
		for _, blk := range s.Blocks() {
			aim(ball, (blk.X0+blk.X1)/2, (blk.Y0+blk.Y1)/2)
			r := s.Tick()
			require.False(t, r.LevelCleared)
			require.Nil(t, r.GameOver)
			maxScore = max(maxScore, r.Score)
		}
	}
	assert.Empty(t, s.Blocks())
	assert.GreaterOrEqual(t, maxScore, 18)
	assert.Equal(t, 54, maxScore)

	r := s.Tick()
	require.True(t, r.LevelCleared)
	assert.Equal(t, 2, r.Level)
	assert.Equal(t, 0, r.Score)
	assert.False(t, r.Paused)

	assert.Len(t, s.Blocks(), 18)
	assert.Len(t, s.MovingBlocks(), 2)
	require.Len(t, s.Balls(), 1)
	assert.Same(t, ball, s.Balls()[0])
	assert.Equal(t, 640.0, ball.X)
	assert.Equal(t, 360.0, ball.Y)
	assert.InDelta(t, 5.2, ball.Speed, 1e-12)
	assert.InDelta(t, 5.2, math.Hypot(ball.DX, ball.DY), 1e-9)
	assert.Equal(t, 158.0, s.Paddle().Width)
	assert.Equal(t, 10.0, s.Paddle().Speed)
	assert.Equal(t, 690.0, s.Paddle().Y)

	var created, removed int
	for _, ev := range r.Render {
		switch ev.Op {
		case object.OpCreated:
			created++
		case object.OpRemoved:
			removed++
		}
	}
	assert.Equal(t, len(s.Scene()), created)
	assert.Positive(t, removed)
}

func TestLastBallFallingEndsGame(t *testing.T) {
	s := newTestSim(t, noPowerUps)
	s.Start()
	s.score = 7
	ball := s.Balls()[0]
	ball.DX, ball.DY = 0, ball.Speed
	ball.X, ball.Y = 100, 718

	r := s.Tick()
	require.NotNil(t, r.GameOver)
	assert.Equal(t, Record{Name: "tester", Score: 7}, *r.GameOver)
	assert.True(t, r.Paused)
	assert.True(t, s.Over())

	r = s.Tick()
	assert.Nil(t, r.GameOver)
	s.Start()
	assert.True(t, s.Paused())
}

func TestFallenBallRemovedWhileOthersInPlay(t *testing.T) {
	s := newTestSim(t, noPowerUps)
	s.Start()
	first := s.Balls()[0]
	extra := first.Split(s.rng)
	s.balls = append(s.balls, extra)

	first.DX, first.DY = 0, first.Speed
	first.X, first.Y = 100, 718

	r := s.Tick()
	assert.Nil(t, r.GameOver)
	require.Len(t, s.Balls(), 1)
	assert.Same(t, extra, s.Balls()[0])

	var removedBall bool
	for _, ev := range r.Render {
		if ev.Op == object.OpRemoved && ev.ID == first.ID {
			removedBall = true
		}
	}
	assert.True(t, removedBall)
}

func TestMultipleBallsPowerUp(t *testing.T) {
	s := newTestSim(t, nil)
	s.Start()
	s.nextPowerUp = math.MaxUint32
	ball := s.Balls()[0]
	s.powerUps = []*object.PowerUp{
		object.NewPowerUp(object.MultipleBalls, ball.X, ball.Y, 40, 40, 0, s.lifetimeTicks),
	}

	s.Tick()
	balls := s.Balls()
	require.Len(t, balls, 4)
	assert.Empty(t, s.PowerUps())

	dirs := map[[2]float64]bool{}
	for _, b := range balls {
		assert.InDelta(t, ball.Speed, math.Hypot(b.DX, b.DY), 1e-9)
		dirs[[2]float64{b.DX, b.DY}] = true
	}
	assert.Len(t, dirs, 4)
}

func TestTimedEffectsExpireWhilePaused(t *testing.T) {
	s := newTestSim(t, nil)
	s.Start()
	s.nextPowerUp = math.MaxUint32
	ball := s.Balls()[0]
	s.powerUps = []*object.PowerUp{
		object.NewPowerUp(object.SlowMotion, ball.X, ball.Y, 40, 40, 0, s.lifetimeTicks),
		object.NewPowerUp(object.ShrinkPaddle, ball.X, ball.Y, 40, 40, 0, s.lifetimeTicks),
	}

	s.Tick()
	assert.InDelta(t, 3, ball.Speed, 1e-12)
	assert.Equal(t, 95.0, s.Paddle().Width)
	assert.Equal(t, object.Tick(1000), s.effectTicks)

	s.TogglePause()
	for range s.effectTicks - 1 {
		s.Tick()
	}
	assert.InDelta(t, 3, ball.Speed, 1e-12)

	r := s.Tick()
	assert.InDelta(t, 4, ball.Speed, 1e-12)
	assert.Equal(t, 190.0, s.Paddle().Width)
	require.NotEmpty(t, r.Render)
	assert.Equal(t, object.OpResized, r.Render[0].Op)
}

func TestRetriggeredEffectUsesLatestDeadline(t *testing.T) {
	s := newTestSim(t, nil)
	s.Start()
	s.nextPowerUp = math.MaxUint32
	ball := s.Balls()[0]
	s.powerUps = []*object.PowerUp{object.NewPowerUp(object.SpeedUpBall, ball.X, ball.Y, 40, 40, 0, s.lifetimeTicks)}
	s.Tick()
	assert.InDelta(t, 6, ball.Speed, 1e-12)

	s.TogglePause()
	for range 500 {
		s.Tick()
	}
	ball.ApplySlowMotion(s.Now(), s.effectTicks)
	deadline := s.Now() + s.effectTicks

	for s.Now() < deadline-1 {
		s.Tick()
		require.InDelta(t, 3, ball.Speed, 1e-12, "tick %d", s.Now())
	}
	s.Tick()
	assert.InDelta(t, 4, ball.Speed, 1e-12)
}

func TestPowerUpBatchCadence(t *testing.T) {
	s := newTestSim(t, nil)
	s.Start()

	s.Tick()
	ups := s.PowerUps()
	require.NotEmpty(t, ups)
	assert.LessOrEqual(t, len(ups), 3)
	for _, p := range ups {
		assert.True(t, p.Active)
		assert.GreaterOrEqual(t, p.X, 50.0)
		assert.LessOrEqual(t, p.X, 1230.0)
		assert.GreaterOrEqual(t, p.Y, 280.0)
		assert.LessOrEqual(t, p.Y, 650.0)
		assert.Equal(t, s.Now()+2000, p.ExpiresAt)
	}
	assert.GreaterOrEqual(t, s.nextPowerUp, s.Now()+1000)
	assert.LessOrEqual(t, s.nextPowerUp, s.Now()+3000)

	// Live power-ups block a new batch even once the interval has passed.
	s.nextPowerUp = s.Now()
	s.Tick()
	assert.Len(t, s.PowerUps(), len(ups))

	s.TogglePause()
	for range 2000 {
		s.Tick()
	}
	assert.Empty(t, s.PowerUps())
}

func TestCheats(t *testing.T) {
	s := newTestSim(t, nil)
	s.Start()

	s.Cheat(CheatPaddleSpeed)
	assert.Equal(t, 10.0, s.Paddle().Speed)

	s.Cheat(CheatPaddleSize)
	assert.InDelta(t, 228, s.Paddle().Width, 1e-9)
	assert.InDelta(t, 228, s.Paddle().BaseWidth, 1e-9)

	ball := s.Balls()[0]
	for range 4 {
		s.Cheat(CheatBallSpeed)
	}
	assert.InDelta(t, -0.8, ball.Speed, 1e-9)
}

func TestStartLevelAppliesDifficulty(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, Options{PlayerName: "p", StartLevel: 3, Seed: 1})

	assert.Equal(t, 3, s.Level())
	assert.Len(t, s.MovingBlocks(), 3)
	assert.Equal(t, 131.0, s.Paddle().Width)
	assert.Equal(t, 12.0, s.Paddle().Speed)
	assert.InDelta(t, 6.4, s.Balls()[0].Speed, 1e-12)

	moving := s.MovingBlocks()
	for i := range moving {
		for j := i + 1; j < len(moving); j++ {
			assert.False(t, moving[i].Overlaps(moving[j]))
		}
	}

	s = New(cfg, Options{StartLevel: 9})
	assert.Equal(t, 3, s.Level())
}
