// Package render projects workouts into map markers and list entries. It
// holds no state; the same input always yields the same projection.
package render

import (
	"strconv"

	"backend-mapty/internal/surface"
	"backend-mapty/internal/workout"
)

const (
	glyphRunning   = "🏃‍♂️"
	glyphCycling   = "🚴‍♀️"
	glyphDuration  = "⏱"
	glyphMetric    = "⚡️"
	glyphCadence   = "🦶🏼"
	glyphElevation = "⛰"
)

// View is the full projection of a stored sequence.
type View struct {
	Markers []surface.Marker    `json:"markers"`
	Entries []surface.ListEntry `json:"entries"`
}

func Project(workouts []workout.Workout) View {
	v := View{
		Markers: make([]surface.Marker, 0, len(workouts)),
		Entries: make([]surface.ListEntry, 0, len(workouts)),
	}
	for _, w := range workouts {
		v.Markers = append(v.Markers, Marker(w))
		v.Entries = append(v.Entries, Entry(w))
	}
	return v
}

func Marker(w workout.Workout) surface.Marker {
	icon, glyph := iconFor(w.Kind())
	return surface.Marker{
		WorkoutID:    w.ID(),
		Coords:       w.Coords(),
		Icon:         icon,
		PopupContent: glyph + " " + w.Description(),
		PopupClass:   string(w.Kind()) + "-popup",
	}
}

func Entry(w workout.Workout) surface.ListEntry {
	_, glyph := iconFor(w.Kind())
	details := []surface.Detail{
		{Icon: glyph, Value: plain(w.DistanceKm()), Unit: "km"},
		{Icon: glyphDuration, Value: plain(w.DurationMin()), Unit: "min"},
	}

	switch w.Kind() {
	case workout.KindRunning:
		m, _ := w.Running()
		details = append(details,
			surface.Detail{Icon: glyphMetric, Value: oneDecimal(m.PaceMinPerKm), Unit: "min/km"},
			surface.Detail{Icon: glyphCadence, Value: plain(m.CadenceSpm), Unit: "spm"},
		)
	case workout.KindCycling:
		m, _ := w.Cycling()
		details = append(details,
			surface.Detail{Icon: glyphMetric, Value: oneDecimal(m.SpeedKmPerH), Unit: "km/h"},
			surface.Detail{Icon: glyphElevation, Value: plain(m.ElevationGainM), Unit: "m"},
		)
	}

	return surface.ListEntry{
		WorkoutID:   w.ID(),
		Kind:        string(w.Kind()),
		Description: w.Description(),
		Details:     details,
	}
}

// DrawMarker and DrawEntry push a single projection to a surface.
func DrawMarker(m surface.Map, w workout.Workout) {
	m.AddMarker(Marker(w))
}

func DrawEntry(l surface.List, w workout.Workout) {
	l.AppendEntry(Entry(w))
}

// ReplayMarkers draws every workout in order. The map must be initialised.
func ReplayMarkers(m surface.Map, workouts []workout.Workout) {
	for _, w := range workouts {
		DrawMarker(m, w)
	}
}

func ReplayEntries(l surface.List, workouts []workout.Workout) {
	for _, w := range workouts {
		DrawEntry(l, w)
	}
}

func iconFor(k workout.Kind) (surface.Icon, string) {
	switch k {
	case workout.KindCycling:
		return surface.IconCycling, glyphCycling
	default:
		return surface.IconRunning, glyphRunning
	}
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
