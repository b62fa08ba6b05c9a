// Package geo summarises the Cartesian toolpath of a translated file.
package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/solheim-lab/mpscara/pkg/core"
)

// Toolpath accumulates the resolved XY targets of one file, in shoulder coordinates.
type Toolpath struct {
	coords []float64
}

// Add appends a visited point. Consecutive duplicates are skipped.
func (t *Toolpath) Add(x, y float64) {
	if n := len(t.coords); n >= 2 && t.coords[n-2] == x && t.coords[n-1] == y {
		return
	}
	t.coords = append(t.coords, x, y)
}

// Len returns the number of distinct consecutive points recorded.
func (t *Toolpath) Len() int {
	return len(t.coords) / 2
}

// LineString returns the path as a simplefeatures line string.
// The result is empty when fewer than two points were recorded.
func (t *Toolpath) LineString() geom.LineString {
	if t.Len() < 2 {
		return geom.LineString{}
	}
	coords := make([]float64, len(t.coords))
	copy(coords, t.coords)
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}

// Summary returns the planar path length and bounding box.
func (t *Toolpath) Summary() (length float64, env core.Envelope) {
	switch t.Len() {
	case 0:
		return 0, core.Envelope{Empty: true}
	case 1:
		x, y := t.coords[0], t.coords[1]
		return 0, core.Envelope{MinX: x, MinY: y, MaxX: x, MaxY: y}
	}

	ls := t.LineString()
	lo, hi, ok := ls.Envelope().MinMaxXYs()
	if !ok {
		return ls.Length(), core.Envelope{Empty: true}
	}
	return ls.Length(), core.Envelope{
		MinX: lo.X,
		MinY: lo.Y,
		MaxX: hi.X,
		MaxY: hi.Y,
	}
}
