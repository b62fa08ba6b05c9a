package translate

import (
	"strconv"
	"strings"

	"github.com/solheim-lab/mpscara/pkg/core"
)

// lineBuilder assembles one output G-code line. Values are written with six
// decimals, matching the "%f" convention of common firmware tooling.
type lineBuilder struct {
	sb strings.Builder
}

func newLine(opcode string) *lineBuilder {
	b := &lineBuilder{}
	b.sb.WriteString(opcode)
	return b
}

func (b *lineBuilder) value(letter byte, v float64) *lineBuilder {
	b.sb.WriteByte(' ')
	b.sb.WriteByte(letter)
	b.sb.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
	return b
}

func (b *lineBuilder) optional(letter byte, o core.Optional) *lineBuilder {
	if o.Valid {
		b.value(letter, o.Value)
	}
	return b
}

func (b *lineBuilder) angles(a core.JointAngles) *lineBuilder {
	return b.value('X', a.A).value('Y', a.B)
}

func (b *lineBuilder) String() string {
	return b.sb.String()
}
