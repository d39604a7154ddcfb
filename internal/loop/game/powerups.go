package game

import (
	"slices"

	"github.com/tomz197/breakout/internal/object"
)

// collectPowerUps applies every power-up touched by a ball this tick, then
// spawns a new batch when none is left on the field and the cadence allows.
func (s *Simulation) collectPowerUps() {
	if !s.cfg.PowerUps.Enabled {
		return
	}

	// Balls spawned by a split join play after this pass.
	inPlay := len(s.balls)
	for _, p := range s.powerUps {
		for _, ball := range s.balls[:inPlay] {
			if !p.CheckCollision(ball) {
				continue
			}
			s.applyPowerUp(p, ball)
			break
		}
	}
	s.powerUps = slices.DeleteFunc(s.powerUps, func(p *object.PowerUp) bool { return !p.Active })

	if len(s.powerUps) == 0 && s.now >= s.nextPowerUp {
		s.spawnPowerUps()
	}
}

func (s *Simulation) applyPowerUp(p *object.PowerUp, collector *object.Ball) {
	pc := s.cfg.PowerUps
	res := p.Apply(object.EffectTarget{
		Collector:   collector,
		First:       s.balls[0],
		Paddle:      s.paddle,
		Rand:        s.rng,
		Now:         s.now,
		Duration:    s.effectTicks,
		Splits:      pc.Splits,
		SplitOffset: pc.SplitOffset,
	})
	s.emit(object.OpRemoved, p)

	for _, nb := range res.NewBalls {
		s.balls = append(s.balls, nb)
		s.emit(object.OpCreated, nb)
	}
	if res.PaddleResized {
		s.emit(object.OpResized, s.paddle)
	}
}

// spawnPowerUps places a batch of random power-ups and schedules the next one.
func (s *Simulation) spawnPowerUps() {
	pc := s.cfg.PowerUps
	n := pc.MinBatch + s.rng.IntN(pc.MaxBatch-pc.MinBatch+1)
	for range n {
		kind := object.PowerUpKinds[s.rng.IntN(len(object.PowerUpKinds))]
		x := s.uniform(pc.MinX, pc.MaxX)
		y := s.uniform(pc.MinY, pc.MaxY)
		p := object.NewPowerUp(kind, x, y, pc.Width, pc.Height, s.now, s.lifetimeTicks)
		s.powerUps = append(s.powerUps, p)
		s.emit(object.OpCreated, p)
	}

	lo := object.TicksFor(pc.MinInterval, s.cfg.Tick.Period)
	hi := object.TicksFor(pc.MaxInterval, s.cfg.Tick.Period)
	s.nextPowerUp = s.now + lo
	if hi > lo {
		s.nextPowerUp += object.Tick(s.rng.Uint64N(uint64(hi-lo) + 1))
	}
}
