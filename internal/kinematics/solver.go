// Package kinematics maps Cartesian tool positions and velocities of a two-link
// planar arm onto its joint space.
//
// All inputs are in shoulder-centred coordinates: the machine's workspace offset
// must already be applied to Y.
package kinematics

import (
	"fmt"
	"math"

	"github.com/solheim-lab/mpscara/pkg/core"
)

const (
	anglePlaces    = 4
	feedratePlaces = 5
)

// OutOfRangeError is returned when a point lies outside the annulus the arm can reach.
type OutOfRangeError struct {
	X, Y  float64
	Reach float64 // distance from the shoulder
	Inner float64
	Outer float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("point (%.4f, %.4f) is %.4f mm from the shoulder, outside the reachable range [%.4f, %.4f]",
		e.X, e.Y, e.Reach, e.Inner, e.Outer)
}

// Solve returns the joint angles, in degrees rounded to 4 places, that put the tool at (x, y).
func Solve(x, y float64, m core.Machine) (core.JointAngles, error) {
	thetaA, thetaB, err := solveRadians(x, y, m)
	if err != nil {
		return core.JointAngles{}, err
	}
	return core.JointAngles{
		A: roundTo(degrees(thetaA), anglePlaces),
		B: roundTo(degrees(thetaB), anglePlaces),
	}, nil
}

// solveRadians is Solve without the output rounding.
func solveRadians(x, y float64, m core.Machine) (thetaA, thetaB float64, err error) {
	a, b := m.UpperArm, m.Forearm
	c := math.Hypot(x, y)
	if c == 0 {
		return 0, 0, outOfRange(x, y, c, m)
	}

	cosA, cosB := lawOfCosines(c, a, b)
	if math.IsNaN(cosA) || math.IsNaN(cosB) || math.Abs(cosA) > 1 || math.Abs(cosB) > 1 {
		return 0, 0, outOfRange(x, y, c, m)
	}

	h := m.Handed.Sign()
	thetaC := math.Atan2(y, x)
	thetaA = thetaC + h*math.Acos(cosA)
	thetaB = thetaC - h*math.Acos(cosB)
	return thetaA, thetaB, nil
}

// Forward returns the tool position for the given joint angles (degrees).
// The second angle is the absolute direction of the forearm, as produced by Solve.
func Forward(angles core.JointAngles, m core.Machine) (x, y float64) {
	ta := radians(angles.A)
	tb := radians(angles.B)
	x = m.UpperArm*math.Cos(ta) + m.Forearm*math.Cos(tb)
	y = m.UpperArm*math.Sin(ta) + m.Forearm*math.Sin(tb)
	return x, y
}

// lawOfCosines returns the cosines of the triangle angles at the shoulder (opposite b)
// and at the tool (opposite a) for a shoulder-to-tool distance c.
func lawOfCosines(c, a, b float64) (cosA, cosB float64) {
	cosA = (c*c + a*a - b*b) / (2 * c * a)
	cosB = (c*c + b*b - a*a) / (2 * c * b)
	return cosA, cosB
}

func outOfRange(x, y, c float64, m core.Machine) error {
	return &OutOfRangeError{
		X:     x,
		Y:     y,
		Reach: c,
		Inner: m.InnerReach(),
		Outer: m.OuterReach(),
	}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
