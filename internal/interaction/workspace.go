// Package interaction exposes one workspace's interaction core over HTTP.
package interaction

import (
	"context"
	"sync"

	"backend-mapty/internal/controller"
	"backend-mapty/internal/remote"
	"backend-mapty/internal/render"
	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/store"
)

// Workspace serialises every event of one browser workspace. The controller
// and store are only touched inside Do.
type Workspace struct {
	mu         sync.Mutex
	controller *controller.Controller
	store      *store.Store
	surfaces   *remote.Surfaces
}

func NewWorkspace(ctrl *controller.Controller, st *store.Store, surfaces *remote.Surfaces) *Workspace {
	return &Workspace{
		controller: ctrl,
		store:      st,
		surfaces:   surfaces,
	}
}

func (w *Workspace) Do(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn()
}

func (w *Workspace) Start(ctx context.Context) {
	_ = w.Do(func() error {
		w.controller.Start(ctx)
		return nil
	})
}

type State struct {
	State    string      `json:"state"`
	MapReady bool        `json:"map_ready"`
	Kind     string      `json:"kind"`
	Pending  *geo.Coords `json:"pending,omitempty"`
	View     render.View `json:"view"`
}

// state must be called inside Do.
func (w *Workspace) state() State {
	s := State{
		State:    w.controller.State().String(),
		MapReady: w.controller.MapReady(),
		Kind:     string(w.controller.Kind()),
		View:     render.Project(w.store.All()),
	}
	if pending, ok := w.controller.Pending(); ok {
		s.Pending = &pending
	}
	return s
}
