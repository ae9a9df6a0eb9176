package server

import (
	"context"

	"backend-mapty/internal/auth"
	"backend-mapty/internal/config"
	"backend-mapty/internal/controller"
	"backend-mapty/internal/db"
	"backend-mapty/internal/interaction"
	"backend-mapty/internal/remote"
	"backend-mapty/internal/store"
	"backend-mapty/internal/stream"
	"backend-mapty/internal/surface"
	"backend-mapty/internal/workout"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App       *fiber.App
	Cfg       config.Config
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Stream    *stream.Hub
	Workspace *interaction.Workspace
}

func NewServer(cfg config.Config, pg *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	var q db.Querier
	if pg != nil {
		q = pg
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pg,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}
	s.Workspace = newWorkspace(context.Background(), cfg, newMedium(context.Background(), cfg, q, redisClient), s.Stream)

	registerRoutes(s)
	return s
}

// Close releases the stream subscription.
func (s *Server) Close() error {
	return s.Stream.Close()
}

// newMedium picks the snapshot medium for STORAGE_BACKEND. A backend whose
// connection is missing falls back to memory so the app still runs.
func newMedium(ctx context.Context, cfg config.Config, q db.Querier, redisClient *redis.Client) store.Medium {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		if q == nil {
			break
		}
		if err := db.EnsureSchema(ctx, q); err != nil {
			log.Error(ctx, errors.Wrap(err, "ensure snapshot schema"))
		}
		return store.NewPostgresMedium(q)
	case config.StorageRedis:
		if redisClient == nil {
			break
		}
		return store.NewRedisMedium(redisClient)
	case config.StorageMemory:
		return store.NewMemoryMedium()
	}

	log.Info(ctx, "storage backend unavailable, keeping workouts in memory", j.MKV{"backend": cfg.StorageBackend})
	return store.NewMemoryMedium()
}

func newWorkspace(ctx context.Context, cfg config.Config, medium store.Medium, hub *stream.Hub) *interaction.Workspace {
	surfaces := remote.NewSurfaces(hub, cfg.StreamTopic)
	st := store.New(medium, cfg.SnapshotKey)

	var locator surface.Geolocation = surfaces.Geolocation
	if coords, ok := cfg.FixedLocation(); ok {
		locator = surface.FixedLocation(coords)
	}

	ctrl := controller.New(controller.Config{
		Map:         surfaces.Map,
		Form:        surfaces.Form,
		List:        surfaces.List,
		Geolocation: locator,
		Store:       st,
		Factory:     workout.NewFactory(nil, nil),
		Zoom:        cfg.MapZoom,
	})

	ws := interaction.NewWorkspace(ctrl, st, surfaces)
	ws.Start(ctx)
	return ws
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	interaction.RegisterRoutes(s.App.Group("/app"), s.Workspace, jwtMiddleware)
	interaction.RegisterWorkoutRoutes(s.App.Group("/workouts"), s.Workspace)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
