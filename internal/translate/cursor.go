package translate

import "github.com/solheim-lab/mpscara/pkg/core"

// Cursor is the last known tool state within one file. Each axis is tracked
// independently and starts unestablished. Z is never tracked.
//
// X and Y are in shoulder coordinates (workspace offset applied).
type Cursor struct {
	X, Y core.Optional
	E    core.Optional
}

// Established reports whether the planar start point of the next move is known.
func (c *Cursor) Established() bool {
	return c.X.Valid && c.Y.Valid
}

// Reset applies a G92: every named axis becomes established at zero.
// A zero Y is the user's zero, which sits yOffset away from the shoulder.
func (c *Cursor) Reset(axes core.AxisSet, yOffset float64) {
	if axes.Has(core.AxisX) {
		c.X = core.Some(0)
	}
	if axes.Has(core.AxisY) {
		c.Y = core.Some(yOffset)
	}
	if axes.Has(core.AxisE) {
		c.E = core.Some(0)
	}
}
