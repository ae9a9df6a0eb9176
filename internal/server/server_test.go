package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend-mapty/internal/config"
	"backend-mapty/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
)

func memoryConfig() config.Config {
	return config.Config{
		ServerPort:     ":0",
		StorageBackend: config.StorageMemory,
		SnapshotKey:    "workouts",
		StreamTopic:    "workspace",
	}
}

func get(t *testing.T, s *Server, path string) (int, string) {
	t.Helper()
	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestHealthRoute(t *testing.T) {
	s := NewServer(memoryConfig(), nil, nil)
	defer s.Close()

	status, _ := get(t, s, "/health")
	if status != http.StatusOK {
		t.Fatalf("expected 200 status")
	}
}

func TestMetricsRoute(t *testing.T) {
	s := NewServer(memoryConfig(), nil, nil)
	defer s.Close()

	status, body := get(t, s, "/metrics")
	if status != http.StatusOK {
		t.Fatalf("expected 200 status, got %d", status)
	}
	if !strings.Contains(body, "mapty_") {
		t.Fatalf("expected mapty metrics in output")
	}
}

func TestFixedLocationLoadsMap(t *testing.T) {
	cfg := memoryConfig()
	cfg.DefaultLocation = "51.5,-0.1"
	s := NewServer(cfg, nil, nil)
	defer s.Close()

	_, body := get(t, s, "/app/state")
	if !strings.Contains(body, `"map_ready":true`) {
		t.Fatalf("expected map ready, got %s", body)
	}
}

func TestRemoteGeolocationWaits(t *testing.T) {
	s := NewServer(memoryConfig(), nil, nil)
	defer s.Close()

	_, body := get(t, s, "/app/state")
	if !strings.Contains(body, `"map_ready":false`) {
		t.Fatalf("expected map not ready, got %s", body)
	}
}

func TestEventRoutesGuardedBySecret(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWTSecret = "secret"
	s := NewServer(cfg, nil, nil)
	defer s.Close()

	req := httptest.NewRequest(http.MethodPost, "/app/map/click", strings.NewReader(`{"lat":1,"lng":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestNewMediumRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := memoryConfig()
	cfg.StorageBackend = config.StorageRedis
	if _, ok := newMedium(context.Background(), cfg, nil, rdb).(*store.RedisMedium); !ok {
		t.Fatalf("expected redis medium")
	}
	if _, ok := newMedium(context.Background(), cfg, nil, nil).(*store.MemoryMedium); !ok {
		t.Fatalf("expected memory fallback without redis")
	}
}

func TestNewMediumPostgres(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	defer mock.Close()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshots").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	cfg := memoryConfig()
	cfg.StorageBackend = config.StoragePostgres
	if _, ok := newMedium(context.Background(), cfg, mock, nil).(*store.PostgresMedium); !ok {
		t.Fatalf("expected postgres medium")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}

	if _, ok := newMedium(context.Background(), cfg, nil, nil).(*store.MemoryMedium); !ok {
		t.Fatalf("expected memory fallback without postgres")
	}
}

func TestNewMediumUnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageBackend = "s3"
	if _, ok := newMedium(context.Background(), cfg, nil, nil).(*store.MemoryMedium); !ok {
		t.Fatalf("expected memory fallback")
	}
}

func TestServerOverRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := memoryConfig()
	cfg.StorageBackend = config.StorageRedis
	cfg.DefaultLocation = "51.5,-0.1"
	s := NewServer(cfg, nil, rdb)
	defer s.Close()

	post := func(path, body string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.App.Test(req)
		if err != nil {
			t.Fatalf("test request: %v", err)
		}
		return resp.StatusCode
	}
	if status := post("/app/map/click", `{"lat":51.5,"lng":-0.1}`); status != http.StatusOK {
		t.Fatalf("map click: %d", status)
	}
	if status := post("/app/form/submit", `{"type":"cycling","distance":"20","duration":"60","elevation":"200"}`); status != http.StatusOK {
		t.Fatalf("submit: %d", status)
	}

	payload, err := mr.Get("mapty:snapshot:workouts")
	if err != nil {
		t.Fatalf("snapshot not stored: %v", err)
	}
	if !strings.Contains(payload, `"type":"cycling"`) {
		t.Fatalf("unexpected snapshot %s", payload)
	}

	// a restarted server replays the stored workout
	restarted := NewServer(cfg, nil, rdb)
	defer restarted.Close()
	_, body := get(t, restarted, "/workouts")
	if !strings.Contains(body, `"type":"cycling"`) {
		t.Fatalf("expected replayed workout, got %s", body)
	}
}
