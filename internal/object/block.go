package object

import "github.com/tomz197/breakout/internal/physics"

// MaxDamage is the last damage level a block survives.
const MaxDamage = 3

// Block is a rectangular obstacle. Static blocks stay put; moving blocks
// oscillate horizontally between the field walls.
type Block struct {
	ID        ID
	X0, Y0    float64 // top-left
	X1, Y1    float64 // bottom-right
	Damage    int     // 1..MaxDamage
	Moving    bool
	Speed     float64 // horizontal step per tick, moving blocks only
	destroyed bool
}

// NewBlock creates a static block at damage level 1.
func NewBlock(x0, y0, x1, y1 float64) *Block {
	return &Block{ID: NewID(), X0: x0, Y0: y0, X1: x1, Y1: y1, Damage: 1}
}

// NewMovingBlock creates an oscillating block at damage level 1.
func NewMovingBlock(x0, y0, x1, y1, speed float64) *Block {
	b := NewBlock(x0, y0, x1, y1)
	b.Moving = true
	b.Speed = speed
	return b
}

func (b *Block) RenderID() ID { return b.ID }

func (b *Block) Kind() Kind {
	if b.Moving {
		return KindMovingBlock
	}
	return KindBlock
}

func (b *Block) Bounds() (x0, y0, x1, y1 float64) {
	return b.X0, b.Y0, b.X1, b.Y1
}

// Colour maps the damage level to green, orange and red.
func (b *Block) Colour() Colour {
	switch b.Damage {
	case 1:
		return ColourGreen
	case 2:
		return ColourOrange
	default:
		return ColourRed
	}
}

func (b *Block) MarkDestroyed()    { b.destroyed = true }
func (b *Block) IsDestroyed() bool { return b.destroyed }

// CheckCollision reports whether the ball centre lies inside the block, edges included.
func (b *Block) CheckCollision(ball *Ball) bool {
	if b.destroyed {
		return false
	}
	return physics.PointInRect(ball.X, ball.Y, b.X0, b.Y0, b.X1, b.Y1)
}

// Hit flips the ball's vertical velocity and damages the block.
// It returns true once the block is destroyed.
func (b *Block) Hit(ball *Ball) bool {
	ball.DY = -ball.DY
	if b.Damage >= MaxDamage {
		b.MarkDestroyed()
		return true
	}
	b.Damage++
	return false
}

// Overlaps reports whether two blocks share any interior area.
func (b *Block) Overlaps(o *Block) bool {
	return b.X0 < o.X1 && b.X1 > o.X0 && b.Y0 < o.Y1 && b.Y1 > o.Y0
}

// Move advances a moving block and reverses it at either wall.
// The block is pushed back inside the field so it can never escape.
func (b *Block) Move(fieldWidth float64) {
	if !b.Moving {
		return
	}
	b.X0 += b.Speed
	b.X1 += b.Speed

	switch {
	case b.X0 <= 0:
		b.X1 -= b.X0
		b.X0 = 0
		if b.Speed < 0 {
			b.Speed = -b.Speed
		}
	case b.X1 >= fieldWidth:
		shift := b.X1 - fieldWidth
		b.X0 -= shift
		b.X1 = fieldWidth
		if b.Speed > 0 {
			b.Speed = -b.Speed
		}
	}
}
