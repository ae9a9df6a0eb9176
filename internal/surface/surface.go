// Package surface declares the capabilities the interaction core needs from
// its rendering and sensing collaborators, and the view types passed to them.
package surface

import (
	"context"

	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/workout"
)

// Icon selects the marker and list glyph.
type Icon string

const (
	IconRunning Icon = "running"
	IconCycling Icon = "cycling"
)

// Form field names used with SetFieldVisibility and FocusFirstField.
const (
	FieldType      = "type"
	FieldDistance  = "distance"
	FieldDuration  = "duration"
	FieldCadence   = "cadence"
	FieldElevation = "elevation"
)

type Marker struct {
	WorkoutID    string     `json:"workout_id"`
	Coords       geo.Coords `json:"coords"`
	Icon         Icon       `json:"icon"`
	PopupContent string     `json:"popup_content"`
	PopupClass   string     `json:"popup_class"`
}

type Detail struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

type ListEntry struct {
	WorkoutID   string   `json:"workout_id"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Details     []Detail `json:"details"`
}

// FormFields carries the raw form inputs exactly as typed.
type FormFields struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

type (
	ClickHandler      func(coords geo.Coords) error
	SubmitHandler     func(ctx context.Context, fields FormFields) error
	TypeChangeHandler func(kind workout.Kind) error
	EntryClickHandler func(workoutID string) error
)

type Map interface {
	CenterOn(coords geo.Coords, zoom int)
	OnClick(handler ClickHandler)
	AddMarker(marker Marker)
}

type Form interface {
	Open(prefill geo.Coords)
	Close()
	ClearInputs()
	FocusFirstField()
	SetFieldVisibility(field string, visible bool)
	OnSubmit(handler SubmitHandler)
	OnTypeChange(handler TypeChangeHandler)
	// Alert shows a user-visible message.
	Alert(message string)
}

type List interface {
	AppendEntry(entry ListEntry)
	OnEntryClick(handler EntryClickHandler)
}

// Geolocation makes a one-shot position request. Exactly one of the
// callbacks is invoked, possibly asynchronously.
type Geolocation interface {
	Request(onSuccess func(geo.Coords), onFailure func(error))
}

// FixedLocation answers every request with the same coordinates.
type FixedLocation geo.Coords

func (f FixedLocation) Request(onSuccess func(geo.Coords), _ func(error)) {
	onSuccess(geo.Coords(f))
}
