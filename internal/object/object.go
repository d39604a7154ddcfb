// Package object defines the entities of the play field: balls, the paddle,
// blocks and power-ups, plus the render events they produce.
package object

import "github.com/google/uuid"

// ID correlates an entity with its drawing in the presentation host.
// It is render-only state and never part of a snapshot.
type ID = uuid.UUID

// NewID returns a fresh render identity token.
func NewID() ID {
	return uuid.New()
}

// Field is the rectangular play area bounding all entities.
// Only the left, right and top edges are walls.
type Field struct {
	Width  float64
	Height float64
}

// Center returns the middle of the field.
func (f Field) Center() (x, y float64) {
	return f.Width / 2, f.Height / 2
}

// Destructible is implemented by entities that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the entity for removal at the end of the tick.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for destruction.
	IsDestroyed() bool
}

// Renderable is implemented by every entity the host draws.
type Renderable interface {
	RenderID() ID
	Kind() Kind
	Bounds() (x0, y0, x1, y1 float64)
	Colour() Colour
}

// Kind identifies the entity type behind a render event.
type Kind uint8

const (
	KindBall Kind = iota
	KindPaddle
	KindBlock
	KindMovingBlock
	KindPowerUp
)

func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindPaddle:
		return "paddle"
	case KindBlock:
		return "block"
	case KindMovingBlock:
		return "moving-block"
	case KindPowerUp:
		return "power-up"
	}
	return "unknown"
}

// Colour is the display colour of an entity.
type Colour uint8

const (
	ColourWhite Colour = iota
	ColourGreen
	ColourOrange
	ColourRed
	ColourBlue
)

func (c Colour) String() string {
	switch c {
	case ColourGreen:
		return "green"
	case ColourOrange:
		return "orange"
	case ColourRed:
		return "red"
	case ColourBlue:
		return "blue"
	}
	return "white"
}
