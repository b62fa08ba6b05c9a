package kinematics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/solheim-lab/mpscara/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAngularFeedrate_ZeroLength(t *testing.T) {
	assert.Equal(t, 0.0, AngularFeedrate(50, 140, 50, 140, 1200, testMachine()))
}

func TestAngularFeedrate_Capped(t *testing.T) {
	m := testMachine()
	got := AngularFeedrate(50, 140, 60, 140, 1e7, m)
	assert.Equal(t, m.MaxAngularSpeed, got)
}

func TestAngularFeedrate_TangentialMove(t *testing.T) {
	m := testMachine()
	m.MaxAngularSpeed = 1e9

	// Moving perpendicular to the radius leaves c unchanged, so both joints turn with thetaC.
	got := AngularFeedrate(0, 150, 1, 150, 100, m)
	want := degrees(math.Sqrt2 * 100 / 150)
	assert.InDelta(t, want, got, 1e-4)
}

func TestAngularFeedrate_MatchesFiniteDifference(t *testing.T) {
	tests := []struct {
		name   string
		handed core.Handedness
		x1, y1 float64
		x2, y2 float64
	}{
		{"outward left", core.LeftHanded, 50, 140, 80, 170},
		{"inward left", core.LeftHanded, 120, 160, 20, 100},
		{"sideways right", core.RightHanded, -40, 130, 60, 135},
		{"diagonal right", core.RightHanded, 100, 100, 60, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMachine()
			m.Handed = tt.handed
			m.MaxAngularSpeed = 1e9
			feed := 1200.0

			got := AngularFeedrate(tt.x1, tt.y1, tt.x2, tt.y2, feed, m)

			d := math.Hypot(tt.x2-tt.x1, tt.y2-tt.y1)
			dt := 1e-7
			step := feed * dt / d
			a1, b1, err := solveRadians(tt.x1, tt.y1, m)
			require.NoError(t, err)
			a2, b2, err := solveRadians(tt.x1+(tt.x2-tt.x1)*step, tt.y1+(tt.y2-tt.y1)*step, m)
			require.NoError(t, err)
			want := degrees(math.Hypot(a2-a1, b2-b1) / dt)

			assert.InEpsilon(t, want, got, 1e-4)
		})
	}
}

func TestAngularFeedrate_NeverExceedsLimit(t *testing.T) {
	m := testMachine()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		x1 := rng.Float64()*600 - 300
		y1 := rng.Float64()*600 - 300
		x2 := rng.Float64()*600 - 300
		y2 := rng.Float64()*600 - 300
		feed := rng.Float64() * 20000

		got := AngularFeedrate(x1, y1, x2, y2, feed, m)
		assert.LessOrEqual(t, got, m.MaxAngularSpeed)
		assert.GreaterOrEqual(t, got, 0.0)
	}
}

func TestAngularFeedrate_Rounding(t *testing.T) {
	got := AngularFeedrate(50, 140, 51, 141, 300, testMachine())
	scaled := got * 1e5
	assert.InDelta(t, math.Round(scaled), scaled, 1e-6)
}
