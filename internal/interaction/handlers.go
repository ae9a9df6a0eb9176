package interaction

import (
	"math"

	"backend-mapty/internal/controller"
	"backend-mapty/internal/remote"
	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/store"
	"backend-mapty/internal/surface"
	"backend-mapty/internal/workout"

	"github.com/gofiber/fiber/v2"
	"github.com/luno/jettison/errors"
)

const defaultRadiusKm = 5

type coordsRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

func (r coordsRequest) coords() (geo.Coords, bool) {
	if r.Lat == nil || r.Lng == nil {
		return geo.Coords{}, false
	}
	return geo.Coords{Lat: *r.Lat, Lng: *r.Lng}, true
}

type typeRequest struct {
	Type string `json:"type"`
}

type entryRequest struct {
	ID string `json:"id"`
}

// RegisterRoutes mounts the user event routes and the state view.
func RegisterRoutes(r fiber.Router, ws *Workspace, authMiddleware fiber.Handler) {
	r.Post("/geolocation", authMiddleware, func(c *fiber.Ctx) error {
		var req coordsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		coords, ok := req.coords()
		if req.Error == "" && !ok {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng or error required")
		}
		return ws.respond(c, func() error {
			if req.Error != "" {
				return ws.surfaces.Geolocation.Reject(errors.New(req.Error))
			}
			return ws.surfaces.Geolocation.Resolve(coords)
		})
	})

	r.Post("/map/click", authMiddleware, func(c *fiber.Ctx) error {
		var req coordsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		coords, ok := req.coords()
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}
		return ws.respond(c, func() error {
			return ws.surfaces.Map.Click(coords)
		})
	})

	r.Post("/form/type", authMiddleware, func(c *fiber.Ctx) error {
		var req typeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return ws.respond(c, func() error {
			return ws.surfaces.Form.ChangeType(workout.Kind(req.Type))
		})
	})

	r.Post("/form/submit", authMiddleware, func(c *fiber.Ctx) error {
		var req surface.FormFields
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return ws.respond(c, func() error {
			return ws.surfaces.Form.Submit(c.UserContext(), req)
		})
	})

	r.Post("/list/click", authMiddleware, func(c *fiber.Ctx) error {
		var req entryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.ID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "id required")
		}
		return ws.respond(c, func() error {
			return ws.surfaces.List.EntryClick(req.ID)
		})
	})

	r.Get("/state", func(c *fiber.Ctx) error {
		var s State
		_ = ws.Do(func() error {
			s = ws.state()
			return nil
		})
		return c.JSON(s)
	})
}

// RegisterWorkoutRoutes mounts read-only views of the stored workouts.
func RegisterWorkoutRoutes(r fiber.Router, ws *Workspace) {
	r.Get("/", func(c *fiber.Ctx) error {
		var records []workout.Workout
		_ = ws.Do(func() error {
			records = ws.store.All()
			return nil
		})
		return c.JSON(records)
	})

	r.Get("/near", func(c *fiber.Ctx) error {
		center := geo.Coords{
			Lat: c.QueryFloat("lat", math.NaN()),
			Lng: c.QueryFloat("lng", math.NaN()),
		}
		if err := center.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		radius := c.QueryFloat("radius_km", defaultRadiusKm)
		if math.IsNaN(radius) || radius < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "radius_km must be non-negative")
		}

		var records []workout.Workout
		_ = ws.Do(func() error {
			records = ws.store.Near(center, radius)
			return nil
		})
		if records == nil {
			records = []workout.Workout{}
		}
		return c.JSON(records)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		var (
			w  workout.Workout
			ok bool
		)
		_ = ws.Do(func() error {
			w, ok = ws.store.FindByID(c.Params("id"))
			return nil
		})
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "workout not found")
		}
		return c.JSON(w)
	})
}

// respond runs an event inside the workspace and replies with the state it
// left behind.
func (w *Workspace) respond(c *fiber.Ctx, event func() error) error {
	var s State
	err := w.Do(func() error {
		err := event()
		s = w.state()
		return err
	})
	if err != nil {
		return fiber.NewError(statusFor(err), err.Error())
	}
	return c.JSON(s)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, workout.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, controller.ErrWorkoutNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, controller.ErrNoPendingLocation),
		errors.Is(err, controller.ErrMapUnavailable),
		errors.Is(err, controller.ErrSubmissionInProgress),
		errors.Is(err, store.ErrDuplicateID),
		errors.Is(err, remote.ErrNotBound),
		errors.Is(err, remote.ErrNoPendingRequest):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
