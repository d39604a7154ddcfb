package server

import (
	"cmp"
	"slices"

	"github.com/tomz197/breakout/internal/loop/game"
	"github.com/tomz197/breakout/internal/object"
	"github.com/tomz197/breakout/internal/store"
)

// Sprite is the host-side picture of one entity, kept up to date from render events.
type Sprite struct {
	ID      object.ID
	Kind    object.Kind
	X0, Y0  float64
	X1, Y1  float64
	Colour  object.Colour
	PowerUp object.PowerUpKind
}

// Frame is an immutable view of a game for rendering.
type Frame struct {
	Tick        object.Tick
	Field       object.Field
	Player      string
	Score       int
	Level       int
	MaxLevel    int // highest selectable start level
	Started     bool
	Paused      bool
	GameOver    bool
	Final       *game.Record   // last finished game, while GameOver
	Banner      int            // level number to announce, 0 when none
	Notice      string         // transient status line
	Sprites     []Sprite       // draw order: blocks, power-ups, paddle, balls
	Leaderboard []store.Record // top scores, highest first
}

// scene folds render events into the set of live sprites.
type scene struct {
	sprites map[object.ID]Sprite
}

func newScene(events []object.RenderEvent) *scene {
	sc := &scene{sprites: make(map[object.ID]Sprite, len(events))}
	sc.apply(events)
	return sc
}

func (sc *scene) reset(events []object.RenderEvent) {
	clear(sc.sprites)
	sc.apply(events)
}

func (sc *scene) apply(events []object.RenderEvent) {
	for _, ev := range events {
		if ev.Op == object.OpRemoved {
			delete(sc.sprites, ev.ID)
			continue
		}
		sc.sprites[ev.ID] = Sprite{
			ID:      ev.ID,
			Kind:    ev.Kind,
			X0:      ev.X0,
			Y0:      ev.Y0,
			X1:      ev.X1,
			Y1:      ev.Y1,
			Colour:  ev.Colour,
			PowerUp: ev.PowerUp,
		}
	}
}

// ordered returns the sprites in draw order. Ties are broken by position so
// frames are stable from tick to tick.
func (sc *scene) ordered() []Sprite {
	out := make([]Sprite, 0, len(sc.sprites))
	for _, sp := range sc.sprites {
		out = append(out, sp)
	}
	slices.SortFunc(out, func(a, b Sprite) int {
		if c := cmp.Compare(layer(a.Kind), layer(b.Kind)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Y0, b.Y0); c != 0 {
			return c
		}
		if c := cmp.Compare(a.X0, b.X0); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func layer(k object.Kind) int {
	switch k {
	case object.KindBlock, object.KindMovingBlock:
		return 0
	case object.KindPowerUp:
		return 1
	case object.KindPaddle:
		return 2
	default:
		return 3
	}
}
