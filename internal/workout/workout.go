package workout

import (
	"math"
	"strconv"
	"time"

	"backend-mapty/internal/shared/geo"

	"github.com/google/uuid"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"k8s.io/utils/clock"
)

// ErrValidation is returned for any rejected workout input.
var ErrValidation = errors.New("invalid workout input", j.C("ERR_9e4a1d2c7f35b810"))

// Factory builds workouts with generated ids and creation timestamps.
type Factory struct {
	clock clock.PassiveClock
	newID func() string
}

func NewFactory(c clock.PassiveClock, newID func() string) *Factory {
	if c == nil {
		c = clock.RealClock{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Factory{clock: c, newID: newID}
}

var defaultFactory = NewFactory(nil, nil)

func NewRunning(coords geo.Coords, distanceKm, durationMin, cadenceSpm float64) (Workout, error) {
	return defaultFactory.Running(coords, distanceKm, durationMin, cadenceSpm)
}

func NewCycling(coords geo.Coords, distanceKm, durationMin, elevationGainM float64) (Workout, error) {
	return defaultFactory.Cycling(coords, distanceKm, durationMin, elevationGainM)
}

// Running validates the inputs and derives pace in min/km.
func (f *Factory) Running(coords geo.Coords, distanceKm, durationMin, cadenceSpm float64) (Workout, error) {
	return f.build(KindRunning, coords, distanceKm, durationMin, cadenceSpm)
}

// Cycling validates the inputs and derives speed in km/h. Elevation gain may
// be zero or negative.
func (f *Factory) Cycling(coords geo.Coords, distanceKm, durationMin, elevationGainM float64) (Workout, error) {
	return f.build(KindCycling, coords, distanceKm, durationMin, elevationGainM)
}

func (f *Factory) build(kind Kind, coords geo.Coords, distanceKm, durationMin, extra float64) (Workout, error) {
	now := f.clock.Now()
	w, err := construct(kind, f.newID(), now.UTC(), coords, distanceKm, durationMin, extra)
	if err != nil {
		return Workout{}, err
	}
	// The description uses the calendar day where the workout was logged,
	// not the UTC day.
	w.description = Describe(kind, now)
	return w, nil
}

// construct validates every input and computes the derived metric. The
// description is left to the caller.
func construct(kind Kind, id string, createdAt time.Time, coords geo.Coords, distanceKm, durationMin, extra float64) (Workout, error) {
	if err := validate(kind, coords, distanceKm, durationMin, extra); err != nil {
		return Workout{}, err
	}

	w := Workout{
		id:          id,
		kind:        kind,
		createdAt:   createdAt,
		coords:      coords,
		distanceKm:  distanceKm,
		durationMin: durationMin,
	}
	switch kind {
	case KindRunning:
		w.cadenceSpm = extra
		w.paceMinPerKm = durationMin / distanceKm
		if !isFinite(w.paceMinPerKm) {
			return Workout{}, errors.Wrap(ErrValidation, "derived metric out of range", j.MKV{"field": "pace"})
		}
	case KindCycling:
		w.elevationGainM = extra
		w.speedKmPerH = distanceKm / (durationMin / 60)
		if !isFinite(w.speedKmPerH) {
			return Workout{}, errors.Wrap(ErrValidation, "derived metric out of range", j.MKV{"field": "speed"})
		}
	}
	return w, nil
}

// validate rejects the input when any required field is non-finite or any
// positivity constraint fails.
func validate(kind Kind, coords geo.Coords, distanceKm, durationMin, extra float64) error {
	extraField := ""
	switch kind {
	case KindRunning:
		extraField = "cadence"
	case KindCycling:
		extraField = "elevation"
	default:
		return errors.Wrap(ErrValidation, "unknown workout type", j.MKV{"type": string(kind)})
	}

	if err := coords.Validate(); err != nil {
		return errors.Wrap(ErrValidation, err.Error(), j.MKV{"field": "coords"})
	}

	fields := []struct {
		name     string
		value    float64
		positive bool
	}{
		{"distance", distanceKm, true},
		{"duration", durationMin, true},
		{extraField, extra, kind == KindRunning},
	}
	for _, f := range fields {
		if !isFinite(f.value) {
			return errors.Wrap(ErrValidation, f.name+" must be a finite number", j.MKV{"field": f.name})
		}
	}
	for _, f := range fields {
		if f.positive && f.value <= 0 {
			return errors.Wrap(ErrValidation, f.name+" must be positive", j.MKV{"field": f.name})
		}
	}
	return nil
}

// Describe formats the human readable title, e.g. "Running on April 14",
// from the calendar day of at in its own location. Workouts are described
// in the local zone when logged; a description rebuilt from a stored UTC
// time may fall on the neighbouring day.
func Describe(kind Kind, at time.Time) string {
	return kind.Title() + " on " + at.Month().String() + " " + strconv.Itoa(at.Day())
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
