package translate

import (
	"testing"

	"github.com/solheim-lab/mpscara/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestCursor_StartsUnestablished(t *testing.T) {
	var c Cursor
	assert.False(t, c.Established())
	assert.False(t, c.E.Valid)
}

func TestCursor_Reset(t *testing.T) {
	var c Cursor
	c.E = core.Some(12.5)

	c.Reset(core.AxisSet(0).Add(core.AxisE), 90)
	assert.Equal(t, core.Some(0), c.E)
	assert.False(t, c.X.Valid)
	assert.False(t, c.Y.Valid)

	c.Reset(core.AxisSet(0).Add(core.AxisX).Add(core.AxisY).Add(core.AxisZ), 90)
	assert.True(t, c.Established())
	assert.Equal(t, core.Some(0), c.X)
	assert.Equal(t, core.Some(90), c.Y)
}
