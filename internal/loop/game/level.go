package game

import "github.com/tomz197/breakout/internal/object"

// buildBlocks lays out the static grid and the moving blocks of the current level.
func (s *Simulation) buildBlocks() {
	bc := s.cfg.Blocks
	w := s.field.Width / float64(bc.Columns)

	s.blocks = make([]*object.Block, 0, bc.Rows*bc.Columns)
	for row := range bc.Rows {
		y0 := float64(row) * bc.RowHeight
		for col := range bc.Columns {
			x0 := float64(col) * w
			s.blocks = append(s.blocks, object.NewBlock(x0, y0, x0+w, y0+bc.RowHeight))
		}
	}
	s.rebuildGrid()

	s.moving = s.moving[:0]
	for range s.level {
		if b := s.placeMovingBlock(); b != nil {
			s.moving = append(s.moving, b)
		}
	}
}

// placeMovingBlock finds a spot that overlaps no other moving block. Early
// attempts start at the left wall; later ones also randomise x. It gives up
// after PlaceTries attempts and returns nil.
func (s *Simulation) placeMovingBlock() *object.Block {
	bc := s.cfg.Blocks
	tries := max(bc.PlaceTries, 1)
	for attempt := range tries {
		x := 0.0
		if attempt >= tries/2 {
			x = s.uniform(0, s.field.Width-bc.MovingWidth)
		}
		y := s.uniform(bc.MovingMinY, bc.MovingMaxY)
		speed := s.uniform(bc.MovingMinSpd, bc.MovingMaxSpd)
		cand := object.NewMovingBlock(x, y, x+bc.MovingWidth, y+bc.MovingHeight, speed)
		if !s.overlapsMoving(cand) {
			return cand
		}
	}
	return nil
}

func (s *Simulation) overlapsMoving(cand *object.Block) bool {
	for _, b := range s.moving {
		if cand.Overlaps(b) {
			return true
		}
	}
	return false
}

// uniform draws from [lo, hi]. A collapsed range returns lo.
func (s *Simulation) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}

// clearLevel moves to the next level: the score restarts, timed effects end,
// difficulty steps up, the first ball and the paddle are re-centred and the
// blocks are rebuilt. Play resumes immediately.
func (s *Simulation) clearLevel() {
	s.paused = true
	for _, r := range s.renderables() {
		s.emit(object.OpRemoved, r)
	}

	s.level++
	s.score = 0

	ball := s.balls[0]
	ball.ResetPowerupEffect()
	s.paddle.ResetPowerupEffect()
	object.IncreaseLevel(ball, s.paddle, s.levelRules())

	clear(s.balls)
	s.balls = []*object.Ball{ball}
	ball.SetPosition(s.field.Center())
	s.paddle.SetPosition(s.field.Width/2, s.paddleY())

	clear(s.powerUps)
	s.powerUps = s.powerUps[:0]
	clear(s.toRemove)
	s.nextPowerUp = s.now
	s.buildBlocks()

	for _, r := range s.renderables() {
		s.emit(object.OpCreated, r)
	}
	s.paused = false
}
