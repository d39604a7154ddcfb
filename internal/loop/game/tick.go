package game

import (
	"slices"

	"github.com/tomz197/breakout/internal/object"
)

// Tick advances the clock by one step. Effect timers fire on every tick,
// paused or not; the world only moves while the game is running.
func (s *Simulation) Tick() Report {
	s.now++
	s.expireEffects()
	if !s.running() {
		return s.report()
	}

	s.moveBalls()
	for _, b := range s.balls {
		b.CheckPaddleCollision(s.paddle)
		b.CheckWallCollision(s.field.Width)
	}
	s.hitStaticBlocks()
	s.advanceMovingBlocks()

	if len(s.balls) == 1 && s.balls[0].Fallen(s.field.Height) {
		s.applyRemovals()
		return s.endGame()
	}
	if len(s.blocks) == 0 {
		s.clearLevel()
		r := s.report()
		r.LevelCleared = true
		return r
	}

	s.collectPowerUps()
	s.applyRemovals()
	return s.report()
}

// moveBalls advances every ball and drops fallen ones while more than one is in flight.
func (s *Simulation) moveBalls() {
	kept := s.balls[:0]
	for i, b := range s.balls {
		b.Move()
		inFlight := len(kept) + len(s.balls) - i
		if b.Fallen(s.field.Height) && inFlight > 1 {
			s.emit(object.OpRemoved, b)
			continue
		}
		s.emit(object.OpMoved, b)
		kept = append(kept, b)
	}
	clear(s.balls[len(kept):])
	s.balls = kept
}

// hitStaticBlocks resolves ball/static block overlaps. Every hit scores.
func (s *Simulation) hitStaticBlocks() {
	var candidates []int
	for _, ball := range s.balls {
		candidates = candidates[:0]
		s.grid.QueryPoint(ball.X, ball.Y, func(i int) bool {
			candidates = append(candidates, i)
			return false
		})
		slices.Sort(candidates)
		for _, i := range candidates {
			blk := s.blocks[i]
			if !blk.CheckCollision(ball) {
				continue
			}
			s.score += s.cfg.Score.PerHit
			s.hitBlock(blk, ball)
		}
	}
}

// advanceMovingBlocks moves each oscillating block, then resolves its ball overlaps.
func (s *Simulation) advanceMovingBlocks() {
	for _, blk := range s.moving {
		if blk.IsDestroyed() {
			continue
		}
		blk.Move(s.field.Width)
		s.emit(object.OpMoved, blk)
		for _, ball := range s.balls {
			if blk.CheckCollision(ball) {
				s.hitBlock(blk, ball)
			}
		}
	}
}

func (s *Simulation) hitBlock(blk *object.Block, ball *object.Ball) {
	if blk.Hit(ball) {
		s.toRemove[blk] = struct{}{}
		return
	}
	s.emit(object.OpRecoloured, blk)
}

// applyRemovals drops destroyed blocks from play.
func (s *Simulation) applyRemovals() {
	if len(s.toRemove) == 0 {
		return
	}
	removed := func(b *object.Block) bool {
		if _, ok := s.toRemove[b]; ok {
			s.emit(object.OpRemoved, b)
			return true
		}
		return false
	}
	before := len(s.blocks)
	s.blocks = slices.DeleteFunc(s.blocks, removed)
	s.moving = slices.DeleteFunc(s.moving, removed)
	if len(s.blocks) != before {
		s.rebuildGrid()
	}
	clear(s.toRemove)
}

func (s *Simulation) rebuildGrid() {
	s.grid.Clear()
	for i, b := range s.blocks {
		s.grid.InsertRect(b.X0, b.Y0, b.X1, b.Y1, i)
	}
}

// expireEffects fires every due timer: ball speed effects, the paddle shrink
// and power-up lifetimes.
func (s *Simulation) expireEffects() {
	for _, b := range s.balls {
		b.Expire(s.now)
	}
	if s.paddle.Expire(s.now) {
		s.emit(object.OpResized, s.paddle)
	}
	s.powerUps = slices.DeleteFunc(s.powerUps, func(p *object.PowerUp) bool {
		if p.Expired(s.now) {
			s.emit(object.OpRemoved, p)
			return true
		}
		return false
	})
}

// endGame stops play for good and hands the record to the host.
func (s *Simulation) endGame() Report {
	s.over = true
	s.paused = true
	r := s.report()
	r.GameOver = &Record{Name: s.player, Score: s.score}
	return r
}
