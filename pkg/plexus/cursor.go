package plexus

import (
	"math"

	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
)

type PointerState uint8

const (
	Released PointerState = iota
	Pressed
)

func (s PointerState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Cursor pushes points away from the pointer, or pulls them toward it while
// the pointer is pressed. It writes point positions directly and does not
// touch their targets or directions.
type Cursor struct {
	field    *Field
	position geometry.Vector2D
	state    PointerState
}

// NewCursor attaches a pointer force to f. Its settings are read from
// f.Config().Cursor on every event, so live reconfiguration applies at once.
func NewCursor(f *Field) *Cursor {
	return &Cursor{field: f, state: Released}
}

func (c *Cursor) Position() geometry.Vector2D { return c.position }
func (c *Cursor) State() PointerState         { return c.state }

// Move records the pointer position and applies the force once.
func (c *Cursor) Move(pos geometry.Vector2D) {
	c.position = pos
	c.Apply()
}

func (c *Cursor) Press()   { c.state = Pressed }
func (c *Cursor) Release() { c.state = Released }

// Leave is treated as a release.
func (c *Cursor) Leave() { c.state = Released }

// Apply moves every point within CursorRadius of the pointer by
// cursor.pointsSpeed, away from the pointer when released and toward it when
// pressed. A pulled point stops on the pointer rather than passing it.
func (c *Cursor) Apply() {
	f := c.field
	cc := f.cfg.Cursor
	if !cc.Active || f.closed {
		return
	}
	radiusSq := f.opt.CursorRadiusSq

	for _, p := range f.points {
		distSq := geometry.DistanceSquared(c.position, p.position)
		if distSq > radiusSq || distSq == 0 {
			continue
		}

		var push geometry.Vector2D
		if c.state == Pressed {
			step := math.Min(cc.PointsSpeed, math.Sqrt(distSq))
			push = geometry.VectorTo(p.position, c.position).Normalize().Mul(step)
		} else {
			push = geometry.VectorTo(c.position, p.position).Normalize().Mul(cc.PointsSpeed)
		}
		p.position = p.position.Add(push)
	}
}
