// Package game holds the deterministic breakout simulation. It performs no I/O:
// the host feeds it input calls and ticks, and receives reports back.
package game

import (
	"math/rand/v2"

	"github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/object"
	"github.com/tomz197/breakout/internal/physics"
)

// gridCellSize is the broad-phase cell edge for static blocks.
const gridCellSize = 80

// Options configures a new game.
type Options struct {
	PlayerName string
	StartLevel int    // 1-based, clamped to [1, Level.MaxStartLevel]
	Seed       uint64 // seeds the power-up and split randomness
}

// Record is a finished game's leaderboard entry.
type Record struct {
	Name  string
	Score int
}

// Report is what a tick hands back to the host.
type Report struct {
	Tick         object.Tick
	Score        int
	Level        int
	Started      bool
	Paused       bool
	LevelCleared bool
	GameOver     *Record // set on the tick the game ends
	Render       []object.RenderEvent
}

// Cheat is one of the hidden key-combination effects.
type Cheat uint8

const (
	CheatPaddleSpeed Cheat = iota
	CheatBallSpeed
	CheatPaddleSize
)

func (c Cheat) String() string {
	switch c {
	case CheatPaddleSpeed:
		return "paddle-speed"
	case CheatBallSpeed:
		return "ball-speed"
	case CheatPaddleSize:
		return "paddle-size"
	}
	return "unknown"
}

// Simulation owns every entity of one game. It is not safe for concurrent
// use; a single driver calls Tick and the input methods.
type Simulation struct {
	cfg   config.Config
	field object.Field
	pcg   *rand.PCG
	rng   *rand.Rand

	now      object.Tick
	balls    []*object.Ball
	paddle   *object.Paddle
	blocks   []*object.Block
	moving   []*object.Block
	powerUps []*object.PowerUp
	grid     *physics.SpatialGrid

	player  string
	score   int
	level   int
	started bool
	paused  bool
	over    bool

	nextPowerUp   object.Tick
	effectTicks   object.Tick
	lifetimeTicks object.Tick

	events   []object.RenderEvent
	toRemove map[*object.Block]struct{}
}

// New creates a game at the requested level, waiting for Start.
func New(cfg config.Config, opts Options) *Simulation {
	s := newSimulation(cfg, opts.PlayerName, rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	level := max(opts.StartLevel, 1)
	if cfg.Level.MaxStartLevel > 0 {
		level = min(level, cfg.Level.MaxStartLevel)
	}
	s.level = level

	x, y := s.field.Center()
	s.balls = []*object.Ball{object.NewBall(x, y, cfg.Ball.Radius, cfg.Ball.Speed)}
	s.paddle = object.NewPaddle(s.field.Width/2, s.paddleY(),
		cfg.Paddle.Width, cfg.Paddle.Height, cfg.Paddle.Speed, s.field.Width)

	for range level - 1 {
		object.IncreaseLevel(s.balls[0], s.paddle, s.levelRules())
	}
	s.buildBlocks()
	return s
}

func newSimulation(cfg config.Config, player string, pcg *rand.PCG) *Simulation {
	return &Simulation{
		cfg:           cfg,
		field:         object.Field{Width: cfg.Field.Width, Height: cfg.Field.Height},
		pcg:           pcg,
		rng:           rand.New(pcg),
		grid:          physics.NewSpatialGrid(cfg.Field.Width, cfg.Field.Height, gridCellSize),
		player:        player,
		effectTicks:   object.TicksFor(cfg.PowerUps.Effect, cfg.Tick.Period),
		lifetimeTicks: object.TicksFor(cfg.PowerUps.Lifetime, cfg.Tick.Period),
		toRemove:      make(map[*object.Block]struct{}),
	}
}

func (s *Simulation) paddleY() float64 {
	return s.field.Height - s.cfg.Paddle.BottomOffset
}

func (s *Simulation) levelRules() object.LevelRules {
	return object.LevelRules{
		PaddleWidthDivisor: s.cfg.Level.PaddleWidthDivisor,
		PaddleSpeedStep:    s.cfg.Level.PaddleSpeedStep,
		BallSpeedStep:      s.cfg.Level.BallSpeedStep,
	}
}

// Start begins play. It also resumes a paused game.
func (s *Simulation) Start() {
	if s.over {
		return
	}
	s.started = true
	s.paused = false
}

// TogglePause pauses or resumes a started game.
func (s *Simulation) TogglePause() {
	if !s.started || s.over {
		return
	}
	s.paused = !s.paused
}

// MoveLeft moves the paddle left while the game is running.
func (s *Simulation) MoveLeft() {
	if !s.running() {
		return
	}
	s.paddle.MoveLeft()
	s.emit(object.OpMoved, s.paddle)
}

// MoveRight moves the paddle right while the game is running.
func (s *Simulation) MoveRight() {
	if !s.running() {
		return
	}
	s.paddle.MoveRight()
	s.emit(object.OpMoved, s.paddle)
}

// Cheat applies a permanent cheat effect. Ball cheats act on the first ball.
func (s *Simulation) Cheat(c Cheat) {
	if s.over {
		return
	}
	switch c {
	case CheatPaddleSpeed:
		s.paddle.IncreaseSpeed(s.cfg.Cheats.PaddleSpeedStep)
	case CheatBallSpeed:
		s.balls[0].DecreaseSpeed(s.cfg.Cheats.BallSpeedStep)
	case CheatPaddleSize:
		s.paddle.IncreaseSize(s.cfg.Cheats.PaddleSizeScale)
		s.emit(object.OpResized, s.paddle)
	}
}

func (s *Simulation) running() bool {
	return s.started && !s.paused && !s.over
}

// Now returns the current tick.
func (s *Simulation) Now() object.Tick { return s.now }

// Score returns the score of the current level.
func (s *Simulation) Score() int { return s.score }

// Level returns the current level, starting at 1.
func (s *Simulation) Level() int { return s.level }

// Player returns the name recorded on game over.
func (s *Simulation) Player() string { return s.player }

// Started reports whether Start has been called.
func (s *Simulation) Started() bool { return s.started }

// Paused reports whether play is paused. A finished game is always paused.
func (s *Simulation) Paused() bool { return s.paused }

// Over reports whether the game has ended.
func (s *Simulation) Over() bool { return s.over }

// Balls returns the balls in play, first ball first.
func (s *Simulation) Balls() []*object.Ball { return append([]*object.Ball(nil), s.balls...) }

// Paddle returns the paddle.
func (s *Simulation) Paddle() *object.Paddle { return s.paddle }

// Blocks returns the static blocks still standing.
func (s *Simulation) Blocks() []*object.Block { return append([]*object.Block(nil), s.blocks...) }

// MovingBlocks returns the moving blocks still standing.
func (s *Simulation) MovingBlocks() []*object.Block {
	return append([]*object.Block(nil), s.moving...)
}

// PowerUps returns the live power-ups.
func (s *Simulation) PowerUps() []*object.PowerUp {
	return append([]*object.PowerUp(nil), s.powerUps...)
}

// Scene describes every entity as a created event, for a host drawing from scratch.
func (s *Simulation) Scene() []object.RenderEvent {
	var out []object.RenderEvent
	for _, r := range s.renderables() {
		out = append(out, object.Event(object.OpCreated, r))
	}
	return out
}

func (s *Simulation) renderables() []object.Renderable {
	out := make([]object.Renderable, 0, len(s.blocks)+len(s.moving)+len(s.powerUps)+len(s.balls)+1)
	for _, b := range s.blocks {
		out = append(out, b)
	}
	for _, b := range s.moving {
		out = append(out, b)
	}
	for _, p := range s.powerUps {
		out = append(out, p)
	}
	out = append(out, s.paddle)
	for _, b := range s.balls {
		out = append(out, b)
	}
	return out
}

func (s *Simulation) emit(op object.RenderOp, r object.Renderable) {
	s.events = append(s.events, object.Event(op, r))
}

func (s *Simulation) report() Report {
	r := Report{
		Tick:    s.now,
		Score:   s.score,
		Level:   s.level,
		Started: s.started,
		Paused:  s.paused,
		Render:  s.events,
	}
	s.events = nil
	return r
}
