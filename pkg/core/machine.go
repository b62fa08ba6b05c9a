// pkg/core/machine.go
package core

import (
	"fmt"
	"math"
	"strings"
)

// Handedness selects which of the two elbow solutions the arm uses.
type Handedness int

const (
	LeftHanded Handedness = iota
	RightHanded
)

// ParseHandedness accepts "L"/"R" (any case, optionally spelled out).
func ParseHandedness(s string) (Handedness, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LEFT":
		return LeftHanded, nil
	case "R", "RIGHT":
		return RightHanded, nil
	default:
		return LeftHanded, fmt.Errorf("unknown handedness %q", s)
	}
}

// Sign is the h term of the kinematic formulas: -1 for a right-handed arm, +1 otherwise.
func (h Handedness) Sign() float64 {
	if h == RightHanded {
		return -1
	}
	return 1
}

func (h Handedness) String() string {
	if h == RightHanded {
		return "R"
	}
	return "L"
}

// Machine is the geometry of a two-link planar arm.
// It is validated once at load and treated as read-only afterwards.
type Machine struct {
	Name            string
	UpperArm        float64 // a, shoulder to elbow (mm)
	Forearm         float64 // b, elbow to tool (mm)
	Handed          Handedness
	YOffset         float64 // added to every target Y before kinematics (mm)
	ChordTolerance  float64 // longest emitted sub-segment (mm)
	MaxAngularSpeed float64 // feedrate cap (deg/min)
}

// InnerReach is the radius of the unreachable disc around the shoulder.
func (m Machine) InnerReach() float64 {
	return math.Abs(m.UpperArm - m.Forearm)
}

// OuterReach is the fully stretched arm length.
func (m Machine) OuterReach() float64 {
	return m.UpperArm + m.Forearm
}

// Validate reports the first out-of-range field. The returned FieldError names the
// field so callers can map it back to their configuration key.
func (m Machine) Validate() error {
	checks := []struct {
		field     string
		value     float64
		allowZero bool
	}{
		{"upperArm", m.UpperArm, false},
		{"forearm", m.Forearm, false},
		{"innerRadius", m.YOffset, true},
		{"quality", m.ChordTolerance, false},
		{"maxSpeed", m.MaxAngularSpeed, false},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &FieldError{Field: c.field, Reason: "must be a finite number"}
		}
		if c.allowZero {
			continue
		}
		if c.value <= 0 {
			return &FieldError{Field: c.field, Reason: fmt.Sprintf("must be > 0, got %g", c.value)}
		}
	}
	if m.Handed != LeftHanded && m.Handed != RightHanded {
		return &FieldError{Field: "handed", Reason: "must be L or R"}
	}
	return nil
}

// FieldError describes an invalid Machine field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("machine %s %s", e.Field, e.Reason)
}
