package workout

import (
	"math"
	"testing"
	"time"

	"backend-mapty/internal/shared/geo"

	"github.com/luno/jettison/jtest"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

var london = geo.Coords{Lat: 51.5, Lng: -0.1}

func newTestFactory(at time.Time) *Factory {
	n := 0
	return NewFactory(clocktesting.NewFakeClock(at), func() string {
		n++
		return "w-" + string(rune('0'+n))
	})
}

func TestRunningDerivesPace(t *testing.T) {
	f := newTestFactory(time.Date(2024, time.April, 14, 9, 30, 0, 0, time.UTC))

	w, err := f.Running(london, 5, 30, 150)
	jtest.RequireNil(t, err)

	require.Equal(t, KindRunning, w.Kind())
	require.Equal(t, "w-1", w.ID())
	require.Equal(t, "Running on April 14", w.Description())

	m, ok := w.Running()
	require.True(t, ok)
	require.Equal(t, 6.0, m.PaceMinPerKm)
	require.Equal(t, 150.0, m.CadenceSpm)

	_, ok = w.Cycling()
	require.False(t, ok)
}

func TestCyclingDerivesSpeed(t *testing.T) {
	f := newTestFactory(time.Date(2024, time.December, 3, 18, 0, 0, 0, time.UTC))

	w, err := f.Cycling(london, 20, 60, 200)
	jtest.RequireNil(t, err)

	m, ok := w.Cycling()
	require.True(t, ok)
	require.Equal(t, 20.0, m.SpeedKmPerH)
	require.Equal(t, 200.0, m.ElevationGainM)
	require.Equal(t, "Cycling on December 3", w.Description())
}

func TestDerivedMetricsExact(t *testing.T) {
	f := newTestFactory(time.Now())
	inputs := [][2]float64{{5, 30}, {3.3, 17.9}, {42.195, 181}, {0.1, 0.7}, {123.456, 7.89}}
	for _, in := range inputs {
		r, err := f.Running(london, in[0], in[1], 170)
		jtest.RequireNil(t, err)
		m, _ := r.Running()
		if m.PaceMinPerKm != in[1]/in[0] {
			t.Fatalf("pace mismatch for %v: %v", in, m.PaceMinPerKm)
		}

		c, err := f.Cycling(london, in[0], in[1], -12)
		jtest.RequireNil(t, err)
		cm, _ := c.Cycling()
		if cm.SpeedKmPerH != in[0]/(in[1]/60) {
			t.Fatalf("speed mismatch for %v: %v", in, cm.SpeedKmPerH)
		}
	}
}

func TestDescriptionUsesLocalCalendarDay(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*60*60)
	// 2024-01-31 20:00 UTC is already February 1 in UTC+10.
	f := newTestFactory(time.Date(2024, time.February, 1, 6, 0, 0, 0, zone))

	w, err := f.Running(london, 1, 5, 160)
	jtest.RequireNil(t, err)
	require.Equal(t, "Running on February 1", w.Description())
	require.Equal(t, time.UTC, w.CreatedAt().Location())
}

func TestValidationRejects(t *testing.T) {
	f := newTestFactory(time.Now())
	nan := math.NaN()
	inf := math.Inf(1)

	cases := []struct {
		name  string
		build func() (Workout, error)
	}{
		{"running zero duration", func() (Workout, error) { return f.Running(london, 5, 0, 150) }},
		{"running negative distance", func() (Workout, error) { return f.Running(london, -1, 30, 150) }},
		{"running zero cadence", func() (Workout, error) { return f.Running(london, 5, 30, 0) }},
		{"running nan cadence", func() (Workout, error) { return f.Running(london, 5, 30, nan) }},
		{"running inf distance", func() (Workout, error) { return f.Running(london, inf, 30, 150) }},
		{"cycling zero distance", func() (Workout, error) { return f.Cycling(london, 0, 60, 200) }},
		{"cycling nan elevation", func() (Workout, error) { return f.Cycling(london, 20, 60, nan) }},
		{"cycling negative duration", func() (Workout, error) { return f.Cycling(london, 20, -60, 200) }},
		{"bad coords", func() (Workout, error) { return f.Cycling(geo.Coords{Lat: 95}, 20, 60, 200) }},
		{"unknown kind", func() (Workout, error) { return f.build(Kind("swimming"), london, 1, 1, 1) }},
		{"cycling speed overflow", func() (Workout, error) { return f.Cycling(london, 1e308, 1, 0) }},
		{"running pace overflow", func() (Workout, error) { return f.Running(london, 1e-300, 1e10, 150) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			jtest.Require(t, ErrValidation, err)
		})
	}
}

func TestExtremeInputsStayEncodable(t *testing.T) {
	f := newTestFactory(time.Now())

	_, err := f.Cycling(london, 1e308, 1, 0)
	jtest.Require(t, ErrValidation, err)

	w, err := f.Cycling(london, 1e300, 1, 0)
	jtest.RequireNil(t, err)
	_, err = EncodeSnapshot([]Workout{w})
	jtest.RequireNil(t, err)
}

func TestCyclingAcceptsNonPositiveElevation(t *testing.T) {
	f := newTestFactory(time.Now())
	for _, elev := range []float64{0, -35.5} {
		_, err := f.Cycling(london, 20, 60, elev)
		jtest.RequireNil(t, err)
	}
}

func TestDefaultFactoryGeneratesDistinctIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		w, err := NewRunning(london, 5, 30, 150)
		jtest.RequireNil(t, err)
		if seen[w.ID()] {
			t.Fatalf("duplicate id %s", w.ID())
		}
		seen[w.ID()] = true
	}
	_, err := NewCycling(london, 20, 60, 0)
	jtest.RequireNil(t, err)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("running")
	require.True(t, ok)
	require.Equal(t, KindRunning, k)

	k, ok = ParseKind("cycling")
	require.True(t, ok)
	require.Equal(t, KindCycling, k)

	_, ok = ParseKind("Running")
	require.False(t, ok)
}
