package workout

import (
	"time"

	"backend-mapty/internal/shared/geo"
)

// Kind discriminates the workout variants. The set is closed.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindRunning:
		return KindRunning, true
	case KindCycling:
		return KindCycling, true
	}
	return "", false
}

// Title returns the kind with its first letter upper-cased, e.g. "Running".
func (k Kind) Title() string {
	switch k {
	case KindRunning:
		return "Running"
	case KindCycling:
		return "Cycling"
	}
	return string(k)
}

// Workout is an immutable logged session. Only one of the variant field
// groups is meaningful, selected by kind.
type Workout struct {
	id          string
	kind        Kind
	createdAt   time.Time
	coords      geo.Coords
	distanceKm  float64
	durationMin float64
	description string

	// running
	cadenceSpm   float64
	paceMinPerKm float64

	// cycling
	elevationGainM float64
	speedKmPerH    float64
}

type RunningMetrics struct {
	CadenceSpm   float64
	PaceMinPerKm float64
}

type CyclingMetrics struct {
	ElevationGainM float64
	SpeedKmPerH    float64
}

func (w Workout) ID() string { return w.id }
func (w Workout) Kind() Kind { return w.kind }
func (w Workout) CreatedAt() time.Time { return w.createdAt }
func (w Workout) Coords() geo.Coords { return w.coords }
func (w Workout) DistanceKm() float64 { return w.distanceKm }
func (w Workout) DurationMin() float64 { return w.durationMin }
func (w Workout) Description() string { return w.description }

func (w Workout) Running() (RunningMetrics, bool) {
	if w.kind != KindRunning {
		return RunningMetrics{}, false
	}
	return RunningMetrics{CadenceSpm: w.cadenceSpm, PaceMinPerKm: w.paceMinPerKm}, true
}

func (w Workout) Cycling() (CyclingMetrics, bool) {
	if w.kind != KindCycling {
		return CyclingMetrics{}, false
	}
	return CyclingMetrics{ElevationGainM: w.elevationGainM, SpeedKmPerH: w.speedKmPerH}, true
}
