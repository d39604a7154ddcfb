package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/object"
)

// SnapshotVersion is the layout version written into every snapshot.
const SnapshotVersion = 1

// Snapshot is the flat, serializable state of a game. It reproduces the
// simulation exactly, except for render identity tokens which are regenerated.
type Snapshot struct {
	Version      int            `msgpack:"version"`
	PlayerName   string         `msgpack:"player_name"`
	Tick         uint64         `msgpack:"tick"`
	Score        int            `msgpack:"score"`
	Level        int            `msgpack:"level"`
	Started      bool           `msgpack:"started"`
	Paused       bool           `msgpack:"paused"`
	GameOver     bool           `msgpack:"game_over"`
	NextPowerUp  uint64         `msgpack:"next_powerup"`
	RNG          []byte         `msgpack:"rng"`
	Balls        []BallState    `msgpack:"balls"`
	Paddle       PaddleState    `msgpack:"paddle"`
	Blocks       []BlockState   `msgpack:"blocks"`
	MovingBlocks []BlockState   `msgpack:"moving_blocks"`
	PowerUps     []PowerUpState `msgpack:"powerups"`
}

type BallState struct {
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	Radius    float64 `msgpack:"radius"`
	DX        float64 `msgpack:"dx"`
	DY        float64 `msgpack:"dy"`
	Speed     float64 `msgpack:"speed"`
	BaseSpeed float64 `msgpack:"base_speed"`
	Factor    float64 `msgpack:"factor"`
	Effect    Timer   `msgpack:"effect"`
}

type PaddleState struct {
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	Width     float64 `msgpack:"width"`
	Height    float64 `msgpack:"height"`
	BaseWidth float64 `msgpack:"base_width"`
	Speed     float64 `msgpack:"speed"`
	Shrink    Timer   `msgpack:"shrink"`
}

type BlockState struct {
	X0     float64 `msgpack:"x0"`
	Y0     float64 `msgpack:"y0"`
	X1     float64 `msgpack:"x1"`
	Y1     float64 `msgpack:"y1"`
	Damage int     `msgpack:"damage"`
	Speed  float64 `msgpack:"speed"`
}

type PowerUpState struct {
	Kind      uint8   `msgpack:"kind"`
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	Width     float64 `msgpack:"width"`
	Height    float64 `msgpack:"height"`
	Active    bool    `msgpack:"active"`
	SpawnTick uint64  `msgpack:"spawn_tick"`
	ExpiresAt uint64  `msgpack:"expires_at"`
}

// Timer is a serialized effect slot.
type Timer struct {
	Armed     bool   `msgpack:"armed"`
	ExpiresAt uint64 `msgpack:"expires_at"`
}

// SnapshotError reports a snapshot whose contents cannot describe a game.
type SnapshotError struct {
	Field  string
	Reason string
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("invalid snapshot: %s: %s", e.Field, e.Reason)
}

// Snapshot captures the full game state.
func (s *Simulation) Snapshot() (Snapshot, error) {
	rng, err := s.pcg.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal rng: %w", err)
	}

	snap := Snapshot{
		Version:     SnapshotVersion,
		PlayerName:  s.player,
		Tick:        uint64(s.now),
		Score:       s.score,
		Level:       s.level,
		Started:     s.started,
		Paused:      s.paused,
		GameOver:    s.over,
		NextPowerUp: uint64(s.nextPowerUp),
		RNG:         rng,
		Paddle: PaddleState{
			X:         s.paddle.X,
			Y:         s.paddle.Y,
			Width:     s.paddle.Width,
			Height:    s.paddle.Height,
			BaseWidth: s.paddle.BaseWidth,
			Speed:     s.paddle.Speed,
			Shrink:    timerOf(s.paddle.Shrink),
		},
	}
	for _, b := range s.balls {
		snap.Balls = append(snap.Balls, BallState{
			X: b.X, Y: b.Y, Radius: b.Radius, DX: b.DX, DY: b.DY,
			Speed: b.Speed, BaseSpeed: b.BaseSpeed, Factor: b.Factor,
			Effect: timerOf(b.Effect),
		})
	}
	snap.Blocks = blockStates(s.blocks)
	snap.MovingBlocks = blockStates(s.moving)
	for _, p := range s.powerUps {
		snap.PowerUps = append(snap.PowerUps, PowerUpState{
			Kind: uint8(p.Type), X: p.X, Y: p.Y, Width: p.Width, Height: p.Height,
			Active: p.Active, SpawnTick: uint64(p.SpawnTick), ExpiresAt: uint64(p.ExpiresAt),
		})
	}
	return snap, nil
}

func timerOf(e object.EffectSlot) Timer {
	return Timer{Armed: e.Armed, ExpiresAt: uint64(e.ExpiresAt)}
}

func (t Timer) slot() object.EffectSlot {
	return object.EffectSlot{Armed: t.Armed, ExpiresAt: object.Tick(t.ExpiresAt)}
}

func blockStates(blocks []*object.Block) []BlockState {
	out := make([]BlockState, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, BlockState{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1, Damage: b.Damage, Speed: b.Speed})
	}
	return out
}

// Restore rebuilds a game from a snapshot. Entities get fresh render IDs;
// call Scene to draw them.
func Restore(cfg config.Config, snap Snapshot) (*Simulation, error) {
	if err := snap.validate(); err != nil {
		return nil, err
	}

	pcg := &rand.PCG{}
	if err := pcg.UnmarshalBinary(snap.RNG); err != nil {
		return nil, &SnapshotError{Field: "rng", Reason: err.Error()}
	}

	s := newSimulation(cfg, snap.PlayerName, pcg)
	s.now = object.Tick(snap.Tick)
	s.score = snap.Score
	s.level = snap.Level
	s.started = snap.Started
	s.paused = snap.Paused
	s.over = snap.GameOver
	s.nextPowerUp = object.Tick(snap.NextPowerUp)

	for _, bs := range snap.Balls {
		s.balls = append(s.balls, &object.Ball{
			ID: object.NewID(), X: bs.X, Y: bs.Y, Radius: bs.Radius, DX: bs.DX, DY: bs.DY,
			Speed: bs.Speed, BaseSpeed: bs.BaseSpeed, Factor: bs.Factor, Effect: bs.Effect.slot(),
		})
	}
	ps := snap.Paddle
	s.paddle = &object.Paddle{
		ID: object.NewID(), X: ps.X, Y: ps.Y, Width: ps.Width, Height: ps.Height,
		BaseWidth: ps.BaseWidth, Speed: ps.Speed, FieldWidth: s.field.Width, Shrink: ps.Shrink.slot(),
	}
	for _, bs := range snap.Blocks {
		b := object.NewBlock(bs.X0, bs.Y0, bs.X1, bs.Y1)
		b.Damage = bs.Damage
		s.blocks = append(s.blocks, b)
	}
	for _, bs := range snap.MovingBlocks {
		b := object.NewMovingBlock(bs.X0, bs.Y0, bs.X1, bs.Y1, bs.Speed)
		b.Damage = bs.Damage
		s.moving = append(s.moving, b)
	}
	for _, p := range snap.PowerUps {
		s.powerUps = append(s.powerUps, &object.PowerUp{
			ID: object.NewID(), Type: object.PowerUpKind(p.Kind), X: p.X, Y: p.Y,
			Width: p.Width, Height: p.Height, Active: p.Active,
			SpawnTick: object.Tick(p.SpawnTick), ExpiresAt: object.Tick(p.ExpiresAt),
		})
	}
	s.rebuildGrid()
	return s, nil
}

func (snap Snapshot) validate() error {
	var errs []error
	if snap.Version != SnapshotVersion {
		errs = append(errs, &SnapshotError{Field: "version", Reason: fmt.Sprintf("unsupported version %d", snap.Version)})
	}
	if snap.Level < 1 {
		errs = append(errs, &SnapshotError{Field: "level", Reason: "must be at least 1"})
	}
	if snap.Score < 0 {
		errs = append(errs, &SnapshotError{Field: "score", Reason: "must not be negative"})
	}
	if len(snap.Balls) == 0 {
		errs = append(errs, &SnapshotError{Field: "balls", Reason: "at least one ball is required"})
	}
	for i, b := range append(append([]BlockState(nil), snap.Blocks...), snap.MovingBlocks...) {
		if b.Damage < 1 || b.Damage > object.MaxDamage {
			errs = append(errs, &SnapshotError{Field: fmt.Sprintf("blocks[%d].damage", i), Reason: fmt.Sprintf("%d out of range", b.Damage)})
		}
	}
	for i, p := range snap.PowerUps {
		if !object.PowerUpKind(p.Kind).Valid() {
			errs = append(errs, &SnapshotError{Field: fmt.Sprintf("powerups[%d].kind", i), Reason: fmt.Sprintf("unknown kind %d", p.Kind)})
		}
	}
	return errors.Join(errs...)
}
