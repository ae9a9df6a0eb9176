package remote

import (
	"context"

	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/surface"
	"backend-mapty/internal/workout"
)

type centerPayload struct {
	Coords geo.Coords `json:"coords"`
	Zoom   int        `json:"zoom"`
}

type openPayload struct {
	Coords geo.Coords `json:"coords"`
}

type fieldPayload struct {
	Field   string `json:"field"`
	Visible *bool  `json:"visible,omitempty"`
}

type alertPayload struct {
	Message string `json:"message"`
}

type Map struct {
	ch      Channel
	onClick surface.ClickHandler
}

func (m *Map) CenterOn(coords geo.Coords, zoom int) {
	m.ch.send(EventMapCenter, centerPayload{Coords: coords, Zoom: zoom})
}

func (m *Map) OnClick(h surface.ClickHandler) { m.onClick = h }

func (m *Map) AddMarker(marker surface.Marker) {
	m.ch.send(EventMapMarker, marker)
}

// Click delivers a map click. It returns ErrNotBound until the map has
// loaded.
func (m *Map) Click(coords geo.Coords) error {
	if m.onClick == nil {
		return ErrNotBound
	}
	return m.onClick(coords)
}

type Form struct {
	ch           Channel
	onSubmit     surface.SubmitHandler
	onTypeChange surface.TypeChangeHandler
}

func (f *Form) Open(prefill geo.Coords) {
	f.ch.send(EventFormOpen, openPayload{Coords: prefill})
}

func (f *Form) Close()       { f.ch.send(EventFormClose, nil) }
func (f *Form) ClearInputs() { f.ch.send(EventFormClear, nil) }

func (f *Form) FocusFirstField() {
	f.ch.send(EventFormFocus, fieldPayload{Field: surface.FieldDistance})
}

func (f *Form) SetFieldVisibility(field string, visible bool) {
	f.ch.send(EventFormField, fieldPayload{Field: field, Visible: &visible})
}

func (f *Form) OnSubmit(h surface.SubmitHandler)         { f.onSubmit = h }
func (f *Form) OnTypeChange(h surface.TypeChangeHandler) { f.onTypeChange = h }

func (f *Form) Alert(message string) {
	f.ch.send(EventAlert, alertPayload{Message: message})
}

func (f *Form) Submit(ctx context.Context, fields surface.FormFields) error {
	if f.onSubmit == nil {
		return ErrNotBound
	}
	return f.onSubmit(ctx, fields)
}

func (f *Form) ChangeType(kind workout.Kind) error {
	if f.onTypeChange == nil {
		return ErrNotBound
	}
	return f.onTypeChange(kind)
}

type List struct {
	ch      Channel
	onClick surface.EntryClickHandler
}

func (l *List) AppendEntry(entry surface.ListEntry) {
	l.ch.send(EventListEntry, entry)
}

func (l *List) OnEntryClick(h surface.EntryClickHandler) { l.onClick = h }

func (l *List) EntryClick(id string) error {
	if l.onClick == nil {
		return ErrNotBound
	}
	return l.onClick(id)
}

// Geolocation asks the browser for its position and waits for the answer
// to be posted back. Only the latest request is pending; each is answered
// once.
type Geolocation struct {
	ch        Channel
	onSuccess func(geo.Coords)
	onFailure func(error)
}

func (g *Geolocation) Request(onSuccess func(geo.Coords), onFailure func(error)) {
	g.onSuccess, g.onFailure = onSuccess, onFailure
	g.ch.send(EventGeolocationRequest, nil)
}

func (g *Geolocation) Pending() bool { return g.onSuccess != nil }

func (g *Geolocation) Resolve(coords geo.Coords) error {
	if g.onSuccess == nil {
		return ErrNoPendingRequest
	}
	onSuccess := g.onSuccess
	g.onSuccess, g.onFailure = nil, nil
	onSuccess(coords)
	return nil
}

func (g *Geolocation) Reject(err error) error {
	if g.onFailure == nil {
		return ErrNoPendingRequest
	}
	onFailure := g.onFailure
	g.onSuccess, g.onFailure = nil, nil
	onFailure(err)
	return nil
}
