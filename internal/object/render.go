package object

// RenderOp is the kind of change a render event reports.
type RenderOp uint8

const (
	OpCreated RenderOp = iota
	OpMoved
	OpResized
	OpRecoloured
	OpRemoved
)

func (op RenderOp) String() string {
	switch op {
	case OpCreated:
		return "created"
	case OpMoved:
		return "moved"
	case OpResized:
		return "resized"
	case OpRecoloured:
		return "recoloured"
	case OpRemoved:
		return "removed"
	}
	return "unknown"
}

// RenderEvent tells the host how an entity changed during a tick.
// Geometry is the entity's bounding box after the change.
type RenderEvent struct {
	Op      RenderOp
	Kind    Kind
	ID      ID
	X0, Y0  float64
	X1, Y1  float64
	Colour  Colour
	PowerUp PowerUpKind // set for KindPowerUp only
}

// Event builds a render event describing r in its current state.
func Event(op RenderOp, r Renderable) RenderEvent {
	x0, y0, x1, y1 := r.Bounds()
	ev := RenderEvent{
		Op:     op,
		Kind:   r.Kind(),
		ID:     r.RenderID(),
		X0:     x0,
		Y0:     y0,
		X1:     x1,
		Y1:     y1,
		Colour: r.Colour(),
	}
	if p, ok := r.(*PowerUp); ok {
		ev.PowerUp = p.Type
	}
	return ev
}
