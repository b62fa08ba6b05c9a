package translate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/solheim-lab/mpscara/internal/kinematics"
	"github.com/solheim-lab/mpscara/pkg/core"
)

// Emitter turns one motion command into joint-space G1 lines, splitting long
// moves into chords no longer than the machine's chord tolerance.
type Emitter struct {
	machine core.Machine
	chords  int
}

// NewEmitter creates an emitter for machine.
func NewEmitter(machine core.Machine) *Emitter {
	return &Emitter{machine: machine}
}

// Chords returns the number of intermediate points emitted so far.
func (e *Emitter) Chords() int {
	return e.chords
}

// Emit appends the output lines for m to dst and advances cur.
//
// A move without X or Y is copied with its Z/E/F. The first planar move of a
// file, before the cursor knows where the tool is, becomes a single line with F
// unconverted. Every later planar move is walked in chord-sized steps, with E
// interpolated along the way and F converted per sub-segment.
func (e *Emitter) Emit(dst []string, cur *Cursor, m core.Motion) ([]string, error) {
	if !m.HasXY() {
		line := newLine(m.Opcode).optional('Z', m.Z).optional('E', m.E).optional('F', m.F)
		if m.E.Valid {
			cur.E = m.E
		}
		return append(dst, line.String()), nil
	}

	target := e.resolve(cur, m)
	var err error
	if cur.Established() {
		dst, err = e.subdivide(dst, cur, m, target)
	} else {
		dst, err = e.first(dst, m, target)
	}
	if err != nil {
		return dst, err
	}

	cur.X = core.Some(target[0])
	cur.Y = core.Some(target[1])
	if m.E.Valid {
		cur.E = m.E
	}
	return dst, nil
}

// resolve fills a missing X or Y from the cursor. An axis that neither the
// command nor the cursor knows resolves to the user origin.
func (e *Emitter) resolve(cur *Cursor, m core.Motion) mgl64.Vec2 {
	x := m.X.Or(cur.X).Or(core.Some(0))
	y := m.Y.Or(cur.Y).Or(core.Some(e.machine.YOffset))
	return mgl64.Vec2{x.Value, y.Value}
}

func (e *Emitter) first(dst []string, m core.Motion, target mgl64.Vec2) ([]string, error) {
	angles, err := kinematics.Solve(target[0], target[1], e.machine)
	if err != nil {
		return dst, err
	}
	line := newLine("G1").angles(angles).optional('Z', m.Z).optional('E', m.E).optional('F', m.F)
	return append(dst, line.String()), nil
}

// chordEpsilon absorbs rounding in distance/tolerance so a move that is an
// exact multiple of the tolerance splits the same way at any angle.
const chordEpsilon = 1e-9

// chordCount is the number of intermediate points on a move of length total:
// one per full step while the distance left is still longer than step. An
// exact multiple k·step therefore gets k-1 points and a final full step.
func chordCount(total, step float64) int {
	if total <= step {
		return 0
	}
	return int(math.Ceil(total/step-chordEpsilon)) - 1
}

func (e *Emitter) subdivide(dst []string, cur *Cursor, m core.Motion, target mgl64.Vec2) ([]string, error) {
	step := e.machine.ChordTolerance
	start := mgl64.Vec2{cur.X.Value, cur.Y.Value}
	delta := target.Sub(start)
	total := delta.Len()
	n := chordCount(total, step)

	prev := start
	for i := 1; i <= n; i++ {
		traveled := step * float64(i)
		mid := start.Add(delta.Mul(traveled / total))

		angles, err := kinematics.Solve(mid[0], mid[1], e.machine)
		if err != nil {
			return dst, err
		}
		line := newLine("G1").angles(angles).optional('Z', m.Z)
		switch {
		case m.E.Valid && cur.E.Valid:
			line.value('E', cur.E.Value+(m.E.Value-cur.E.Value)*traveled/total)
		case cur.E.Valid:
			// the extruder holds its position on a travel move
			line.value('E', cur.E.Value)
		}
		if m.F.Valid {
			line.value('F', e.feedrate(prev, mid, m.F.Value))
		}
		dst = append(dst, line.String())
		e.chords++
		prev = mid
	}

	angles, err := kinematics.Solve(target[0], target[1], e.machine)
	if err != nil {
		return dst, err
	}
	line := newLine("G1").angles(angles).optional('Z', m.Z).optional('E', m.E)
	if m.F.Valid {
		line.value('F', e.feedrate(prev, target, m.F.Value))
	}
	return append(dst, line.String()), nil
}

func (e *Emitter) feedrate(from, to mgl64.Vec2, feed float64) float64 {
	return kinematics.AngularFeedrate(from[0], from[1], to[0], to[1], feed, e.machine)
}
