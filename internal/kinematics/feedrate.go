package kinematics

import (
	"math"

	"github.com/solheim-lab/mpscara/pkg/core"
)

// AngularFeedrate converts a linear feedrate (mm/min) along the segment from
// (x1, y1) toward (x2, y2) into a joint-space feedrate (deg/min).
//
// The joint velocities are the time derivatives of the Solve formulas evaluated at
// the segment start. The result is the magnitude of both joint rates, capped at
// the machine's MaxAngularSpeed and rounded to 5 places. A zero-length segment
// has feedrate 0.
func AngularFeedrate(x1, y1, x2, y2, feed float64, m core.Machine) float64 {
	dx, dy := x2-x1, y2-y1
	if dx == 0 && dy == 0 {
		return 0
	}
	limit := m.MaxAngularSpeed

	d := math.Hypot(dx, dy)
	vx := dx / d * feed
	vy := dy / d * feed

	c := math.Hypot(x1, y1)
	if c == 0 {
		return roundTo(limit, feedratePlaces)
	}
	cDot := (x1*vx + y1*vy) / c
	omegaC := (x1*vy - y1*vx) / (c * c)

	omegaA, omegaB := omegaC, omegaC
	if cDot != 0 {
		a, b := m.UpperArm, m.Forearm
		h := m.Handed.Sign()
		cosA, cosB := lawOfCosines(c, a, b)
		sinA := math.Sqrt(1 - cosA*cosA)
		sinB := math.Sqrt(1 - cosB*cosB)
		// Joint rates diverge at the edges of the annulus.
		if !(sinA > 0) || !(sinB > 0) {
			return roundTo(limit, feedratePlaces)
		}
		dCosA := (c*c - a*a + b*b) / (2 * c * c * a)
		dCosB := (c*c - b*b + a*a) / (2 * c * c * b)
		omegaA = omegaC - h*dCosA*cDot/sinA
		omegaB = omegaC + h*dCosB*cDot/sinB
	}

	omega := math.Abs(degrees(math.Hypot(omegaA, omegaB)))
	if math.IsNaN(omega) || omega > limit {
		omega = limit
	}
	return roundTo(omega, feedratePlaces)
}
