// pkg/core/command.go
package core

// Axis identifies one G-code axis letter tracked by the translator.
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY
	AxisZ
	AxisE
)

// AxisSet is a bit set of axes.
type AxisSet uint8

// Add returns the set with a included.
func (s AxisSet) Add(a Axis) AxisSet {
	return s | AxisSet(a)
}

// Has reports whether a is in the set.
func (s AxisSet) Has(a Axis) bool {
	return s&AxisSet(a) != 0
}

// Optional is a coordinate that is either absent or holds a value.
// It replaces numeric sentinels: a Valid zero is a real zero.
type Optional struct {
	Value float64
	Valid bool
}

// Some wraps v as a present value.
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// Or returns the held value, or fallback when absent.
func (o Optional) Or(fallback Optional) Optional {
	if o.Valid {
		return o
	}
	return fallback
}

// Command is one classified input line.
type Command interface {
	isCommand()
}

// AxisReset is a G92 line. Text is the comment-stripped source line.
type AxisReset struct {
	Axes AxisSet
	Text string
}

// Motion is a G0/G1 line. Y already includes the machine's workspace offset.
type Motion struct {
	Opcode     string
	X, Y, Z, E Optional
	F          Optional
}

// HasXY reports whether the move names a planar coordinate.
func (m Motion) HasXY() bool {
	return m.X.Valid || m.Y.Valid
}

// Passthrough is any other line, copied to the output.
type Passthrough struct {
	Text string
}

func (AxisReset) isCommand()   {}
func (Motion) isCommand()      {}
func (Passthrough) isCommand() {}

// JointAngles are the two joint positions in degrees.
type JointAngles struct {
	A float64 // shoulder
	B float64 // elbow-side link
}
