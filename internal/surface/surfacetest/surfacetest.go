// Package surfacetest provides recording surfaces for tests.
package surfacetest

import (
	"context"

	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/surface"
	"backend-mapty/internal/workout"

	"github.com/luno/jettison/errors"
)

type Center struct {
	Coords geo.Coords
	Zoom   int
}

type Map struct {
	Centers []Center
	Markers []surface.Marker
	onClick surface.ClickHandler
}

func (m *Map) CenterOn(coords geo.Coords, zoom int) {
	m.Centers = append(m.Centers, Center{Coords: coords, Zoom: zoom})
}

func (m *Map) OnClick(h surface.ClickHandler) { m.onClick = h }

func (m *Map) AddMarker(marker surface.Marker) {
	m.Markers = append(m.Markers, marker)
}

// Click simulates a user click; it fails if nothing is bound.
func (m *Map) Click(coords geo.Coords) error {
	if m.onClick == nil {
		return errNotBound
	}
	return m.onClick(coords)
}

func (m *Map) Bound() bool { return m.onClick != nil }

type Form struct {
	IsOpen       bool
	OpenedAt     []geo.Coords
	Focused      int
	Cleared      int
	Closed       int
	Alerts       []string
	Visible      map[string]bool
	onSubmit     surface.SubmitHandler
	onTypeChange surface.TypeChangeHandler
}

func NewForm() *Form {
	return &Form{Visible: map[string]bool{}}
}

func (f *Form) Open(prefill geo.Coords) {
	f.IsOpen = true
	f.OpenedAt = append(f.OpenedAt, prefill)
}

func (f *Form) Close() {
	f.IsOpen = false
	f.Closed++
}

func (f *Form) ClearInputs()     { f.Cleared++ }
func (f *Form) FocusFirstField() { f.Focused++ }

func (f *Form) SetFieldVisibility(field string, visible bool) {
	f.Visible[field] = visible
}

func (f *Form) OnSubmit(h surface.SubmitHandler)         { f.onSubmit = h }
func (f *Form) OnTypeChange(h surface.TypeChangeHandler) { f.onTypeChange = h }

func (f *Form) Alert(message string) {
	f.Alerts = append(f.Alerts, message)
}

func (f *Form) Submit(ctx context.Context, fields surface.FormFields) error {
	if f.onSubmit == nil {
		return errNotBound
	}
	return f.onSubmit(ctx, fields)
}

func (f *Form) ChangeType(kind workout.Kind) error {
	if f.onTypeChange == nil {
		return errNotBound
	}
	return f.onTypeChange(kind)
}

type List struct {
	Entries []surface.ListEntry
	onClick surface.EntryClickHandler
}

func (l *List) AppendEntry(entry surface.ListEntry) {
	l.Entries = append(l.Entries, entry)
}

func (l *List) OnEntryClick(h surface.EntryClickHandler) { l.onClick = h }

func (l *List) Click(id string) error {
	if l.onClick == nil {
		return errNotBound
	}
	return l.onClick(id)
}

// Geolocation holds the callbacks of the last request until the test
// resolves it.
type Geolocation struct {
	Requests  int
	onSuccess func(geo.Coords)
	onFailure func(error)
}

func (g *Geolocation) Request(onSuccess func(geo.Coords), onFailure func(error)) {
	g.Requests++
	g.onSuccess, g.onFailure = onSuccess, onFailure
}

func (g *Geolocation) Succeed(c geo.Coords) {
	g.onSuccess(c)
}

func (g *Geolocation) Fail(err error) {
	g.onFailure(err)
}

var errNotBound = errors.New("no handler bound")
