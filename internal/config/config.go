package config

import (
	"strconv"
	"strings"

	"backend-mapty/internal/shared/geo"

	"github.com/spf13/viper"
)

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	PostgresURL     string `mapstructure:"POSTGRES_URL"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	StorageBackend  string `mapstructure:"STORAGE_BACKEND"`
	SnapshotKey     string `mapstructure:"SNAPSHOT_KEY"`
	MapZoom         int    `mapstructure:"MAP_ZOOM"`
	StreamTopic     string `mapstructure:"STREAM_TOPIC"`
	DefaultLocation string `mapstructure:"DEFAULT_LOCATION"`
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("STORAGE_BACKEND", StorageRedis)
	v.SetDefault("SNAPSHOT_KEY", "workouts")
	v.SetDefault("MAP_ZOOM", 13)
	v.SetDefault("STREAM_TOPIC", "workspace")
	v.SetDefault("DEFAULT_LOCATION", "")

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// FixedLocation parses DEFAULT_LOCATION ("lat,lng"). When set, the server
// centres the map there instead of asking the browser for its position.
func (c Config) FixedLocation() (geo.Coords, bool) {
	parts := strings.Split(c.DefaultLocation, ",")
	if len(parts) != 2 {
		return geo.Coords{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coords{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coords{}, false
	}
	coords := geo.Coords{Lat: lat, Lng: lng}
	if coords.Validate() != nil {
		return geo.Coords{}, false
	}
	return coords, true
}
