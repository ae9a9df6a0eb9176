// Package controller coordinates map clicks, the workout form and the
// workout list around a single store.
//
// The controller is single-threaded: every event must be delivered from one
// goroutine at a time. Callers that receive events concurrently serialise
// them before calling in.
package controller

import (
	"context"
	"math"
	"strconv"
	"strings"

	"backend-mapty/internal/observability"
	"backend-mapty/internal/render"
	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/store"
	"backend-mapty/internal/surface"
	"backend-mapty/internal/workout"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
)

const (
	DefaultZoom = 13

	ValidationMessage  = "The data you have applied is not in correct form. Please try again."
	GeolocationMessage = "Could not get your geolocation!"
)

var (
	ErrGeolocation          = errors.New("geolocation unavailable", j.C("ERR_0f6d3b9a2e814c57"))
	ErrMapUnavailable       = errors.New("map is not loaded", j.C("ERR_a4c2e8170d5b3f96"))
	ErrNoPendingLocation    = errors.New("no map location selected", j.C("ERR_58b1f0d6c3a97e24"))
	ErrWorkoutNotFound      = errors.New("workout not found", j.C("ERR_d93e2a41b7f06c85"))
	ErrSubmissionInProgress = errors.New("submission in progress", j.C("ERR_2b7c9e05f4d1a368"))
)

type State int

const (
	Idle State = iota
	AwaitingSubmission
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingSubmission:
		return "awaiting_submission"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

type Config struct {
	Map         surface.Map
	Form        surface.Form
	List        surface.List
	Geolocation surface.Geolocation
	Store       *store.Store
	Factory     *workout.Factory
	Zoom        int
}

type Controller struct {
	mapSurface surface.Map
	form       surface.Form
	list       surface.List
	locator    surface.Geolocation
	store      *store.Store
	factory    *workout.Factory
	zoom       int

	state      State
	mapReady   bool
	pending    geo.Coords
	hasPending bool
	kind       workout.Kind
}

func New(cfg Config) *Controller {
	if cfg.Zoom <= 0 {
		cfg.Zoom = DefaultZoom
	}
	if cfg.Factory == nil {
		cfg.Factory = workout.NewFactory(nil, nil)
	}
	return &Controller{
		mapSurface: cfg.Map,
		form:       cfg.Form,
		list:       cfg.List,
		locator:    cfg.Geolocation,
		store:      cfg.Store,
		factory:    cfg.Factory,
		zoom:       cfg.Zoom,
		state:      Idle,
		kind:       workout.KindRunning,
	}
}

// Start restores stored workouts into the list, binds form and list events
// and asks for the user's position. Markers are drawn once the map loads.
// Start never fails: storage and geolocation problems only disable features.
func (c *Controller) Start(ctx context.Context) {
	records, err := c.store.LoadAll(ctx)
	if err != nil {
		if errors.Is(err, workout.ErrMalformedSnapshot) {
			observability.RecordSnapshotRecovered()
		} else {
			observability.RecordPersistenceFailure()
		}
		log.Error(ctx, errors.Wrap(err, "starting with an empty workout list"))
	}
	observability.RecordStoreLoaded(len(records))
	render.ReplayEntries(c.list, records)

	c.form.OnSubmit(c.FormSubmitted)
	c.form.OnTypeChange(c.TypeChanged)
	c.list.OnEntryClick(c.ListItemClicked)
	c.applyVisibility(c.kind)

	if c.locator == nil || c.mapSurface == nil {
		c.geolocationFailed(errors.New("no geolocation source"))
		return
	}
	c.locator.Request(c.loadMap, c.geolocationFailed)
}

func (c *Controller) loadMap(coords geo.Coords) {
	if c.mapReady {
		return
	}
	c.mapSurface.CenterOn(coords, c.zoom)
	c.mapSurface.OnClick(c.MapClicked)
	c.mapReady = true
	observability.RecordMapReady(true)

	render.ReplayMarkers(c.mapSurface, c.store.All())
	log.Info(context.Background(), "map loaded", j.MKV{"lat": coords.Lat, "lng": coords.Lng})
}

func (c *Controller) geolocationFailed(err error) {
	observability.RecordMapReady(false)
	log.Error(context.Background(), errors.Wrap(ErrGeolocation, errString(err)))
	c.form.Alert(GeolocationMessage)
}

// MapClicked opens the form bound to coords. A click while the form is
// already open moves the pending location.
func (c *Controller) MapClicked(coords geo.Coords) error {
	if !c.mapReady {
		return ErrMapUnavailable
	}
	if c.state == Submitting {
		return ErrSubmissionInProgress
	}
	if err := coords.Validate(); err != nil {
		return errors.Wrap(workout.ErrValidation, err.Error())
	}

	c.pending = coords
	c.hasPending = true
	c.state = AwaitingSubmission
	c.form.Open(coords)
	c.form.FocusFirstField()
	return nil
}

// TypeChanged shows the input specific to kind and hides the other one.
func (c *Controller) TypeChanged(kind workout.Kind) error {
	if _, ok := workout.ParseKind(string(kind)); !ok {
		return errors.Wrap(workout.ErrValidation, "unknown workout type", j.MKV{"type": string(kind)})
	}
	c.kind = kind
	c.applyVisibility(kind)
	return nil
}

func (c *Controller) applyVisibility(kind workout.Kind) {
	running := kind == workout.KindRunning
	c.form.SetFieldVisibility(surface.FieldCadence, running)
	c.form.SetFieldVisibility(surface.FieldElevation, !running)
}

// FormSubmitted validates the form and commits a new workout at the pending
// location. On a validation failure the user is alerted and the form stays
// open with its inputs intact.
func (c *Controller) FormSubmitted(ctx context.Context, fields surface.FormFields) error {
	switch c.state {
	case Submitting:
		return ErrSubmissionInProgress
	case Idle:
		return ErrNoPendingLocation
	}
	c.state = Submitting

	// A submitted type the form did not announce still updates the form.
	kind := c.kind
	if fields.Type != "" {
		kind = workout.Kind(fields.Type)
		if _, ok := workout.ParseKind(fields.Type); ok && kind != c.kind {
			c.kind = kind
			c.applyVisibility(kind)
		}
	}

	w, err := c.build(kind, fields)
	if err != nil {
		c.state = AwaitingSubmission
		observability.RecordValidationRejected(string(kind))
		log.Info(ctx, "workout rejected", j.MKV{"type": string(kind), "reason": err.Error()})
		c.form.Alert(ValidationMessage)
		return err
	}

	if err := c.store.Append(ctx, w); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			c.state = AwaitingSubmission
			log.Error(ctx, err)
			c.form.Alert(ValidationMessage)
			return err
		}
		// The record is kept in memory; only durability is lost.
		observability.RecordPersistenceFailure()
		log.Error(ctx, err)
	}
	observability.RecordWorkoutLogged(string(w.Kind()), c.store.Len())

	if c.mapReady {
		render.DrawMarker(c.mapSurface, w)
	}
	render.DrawEntry(c.list, w)

	c.form.ClearInputs()
	c.form.Close()
	c.hasPending = false
	c.state = Idle

	log.Info(ctx, "workout logged", j.MKV{"id": w.ID(), "type": string(w.Kind())})
	return nil
}

func (c *Controller) build(kind workout.Kind, fields surface.FormFields) (workout.Workout, error) {
	distance := parseNumber(fields.Distance)
	duration := parseNumber(fields.Duration)

	switch kind {
	case workout.KindRunning:
		return c.factory.Running(c.pending, distance, duration, parseNumber(fields.Cadence))
	case workout.KindCycling:
		return c.factory.Cycling(c.pending, distance, duration, parseNumber(fields.Elevation))
	}
	return workout.Workout{}, errors.Wrap(workout.ErrValidation, "unknown workout type", j.MKV{"type": string(kind)})
}

// ListItemClicked pans the map to the workout with the given id.
func (c *Controller) ListItemClicked(id string) error {
	if c.state == Submitting {
		return ErrSubmissionInProgress
	}
	w, ok := c.store.FindByID(id)
	if !ok {
		return errors.Wrap(ErrWorkoutNotFound, "", j.MKV{"id": id})
	}
	if !c.mapReady {
		return ErrMapUnavailable
	}
	c.mapSurface.CenterOn(w.Coords(), c.zoom)
	return nil
}

func (c *Controller) State() State { return c.state }

func (c *Controller) MapReady() bool { return c.mapReady }

func (c *Controller) Kind() workout.Kind { return c.kind }

// Pending returns the clicked location the open form is bound to.
func (c *Controller) Pending() (geo.Coords, bool) {
	return c.pending, c.hasPending
}

// parseNumber converts a form input the way a browser number conversion
// does: blank input is zero, anything unparsable is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
