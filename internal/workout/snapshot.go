package workout

import (
	"encoding/json"
	"math"
	"time"

	"backend-mapty/internal/shared/geo"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

// ErrMalformedSnapshot is returned when persisted data cannot be turned back
// into valid workouts.
var ErrMalformedSnapshot = errors.New("malformed workout snapshot", j.C("ERR_3c8f6b0e2a7d9145"))

// metricTolerance bounds the relative difference accepted between a stored
// derived metric and its recomputation.
const metricTolerance = 1e-9

// record is the flat persisted shape of a workout.
type record struct {
	Type        Kind       `json:"type"`
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	Coords      geo.Coords `json:"coords"`
	DistanceKm  float64    `json:"distance_km"`
	DurationMin float64    `json:"duration_min"`
	Description string     `json:"description"`

	CadenceSpm     *float64 `json:"cadence_spm,omitempty"`
	PaceMinPerKm   *float64 `json:"pace_min_per_km,omitempty"`
	ElevationGainM *float64 `json:"elevation_gain_m,omitempty"`
	SpeedKmPerH    *float64 `json:"speed_km_per_h,omitempty"`
}

func toRecord(w Workout) record {
	r := record{
		Type:        w.kind,
		ID:          w.id,
		CreatedAt:   w.createdAt,
		Coords:      w.coords,
		DistanceKm:  w.distanceKm,
		DurationMin: w.durationMin,
		Description: w.description,
	}
	switch w.kind {
	case KindRunning:
		cadence, pace := w.cadenceSpm, w.paceMinPerKm
		r.CadenceSpm, r.PaceMinPerKm = &cadence, &pace
	case KindCycling:
		elevation, speed := w.elevationGainM, w.speedKmPerH
		r.ElevationGainM, r.SpeedKmPerH = &elevation, &speed
	}
	return r
}

// fromRecord rebuilds a typed workout, re-running validation and checking
// the stored derived metric against a fresh computation.
func fromRecord(r record) (Workout, error) {
	if r.ID == "" {
		return Workout{}, errors.New("record without id")
	}
	if r.CreatedAt.IsZero() {
		return Workout{}, errors.New("record without creation time", j.MKV{"id": r.ID})
	}

	var extra, stored *float64
	switch r.Type {
	case KindRunning:
		extra, stored = r.CadenceSpm, r.PaceMinPerKm
	case KindCycling:
		extra, stored = r.ElevationGainM, r.SpeedKmPerH
	default:
		return Workout{}, errors.New("unknown record type", j.MKV{"id": r.ID, "type": string(r.Type)})
	}
	if extra == nil {
		return Workout{}, errors.New("record missing variant field", j.MKV{"id": r.ID})
	}

	w, err := construct(r.Type, r.ID, r.CreatedAt.UTC(), r.Coords, r.DistanceKm, r.DurationMin, *extra)
	if err != nil {
		return Workout{}, err
	}

	if stored != nil {
		fresh := w.paceMinPerKm
		if r.Type == KindCycling {
			fresh = w.speedKmPerH
		}
		if !closeEnough(*stored, fresh) {
			return Workout{}, errors.New("stored metric does not match inputs", j.MKV{"id": r.ID})
		}
	}

	// A missing description is rebuilt from the UTC day, which can differ
	// by one from the local day it was logged on.
	w.description = r.Description
	if w.description == "" {
		w.description = Describe(w.kind, w.createdAt)
	} else if !plausibleDescription(w.kind, w.createdAt, w.description) {
		return Workout{}, errors.New("stored description does not match record", j.MKV{"id": r.ID})
	}
	return w, nil
}

// plausibleDescription accepts the description of kind for the UTC day of
// createdAt or either neighbouring day, covering every local zone.
func plausibleDescription(kind Kind, createdAt time.Time, description string) bool {
	for _, offset := range []int{-1, 0, 1} {
		if description == Describe(kind, createdAt.AddDate(0, 0, offset)) {
			return true
		}
	}
	return false
}

// MarshalJSON renders the workout in its persisted flat shape.
func (w Workout) MarshalJSON() ([]byte, error) {
	return json.Marshal(toRecord(w))
}

// EncodeSnapshot serialises workouts in order.
func EncodeSnapshot(workouts []Workout) ([]byte, error) {
	records := make([]record, 0, len(workouts))
	for _, w := range workouts {
		records = append(records, toRecord(w))
	}
	return json.Marshal(records)
}

// DecodeSnapshot parses a snapshot produced by EncodeSnapshot. A single bad
// record rejects the whole snapshot.
func DecodeSnapshot(data []byte) ([]Workout, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(ErrMalformedSnapshot, err.Error())
	}

	workouts := make([]Workout, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		w, err := fromRecord(r)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedSnapshot, err.Error(), j.MKV{"index": i})
		}
		if _, dup := seen[w.id]; dup {
			return nil, errors.Wrap(ErrMalformedSnapshot, "duplicate id", j.MKV{"id": w.id})
		}
		seen[w.id] = struct{}{}
		workouts = append(workouts, w)
	}
	return workouts, nil
}

func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= metricTolerance*math.Max(math.Abs(a), math.Abs(b))
}
