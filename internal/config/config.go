package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// Values come from environment variables (optionally loaded from .env first).
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	Port        string `mapstructure:"PORT"`

	DatabaseURL   string        `mapstructure:"DATABASE_URL"`
	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisTTL      time.Duration `mapstructure:"REDIS_TTL"`

	DigitransitPrimaryKey string  `mapstructure:"DIGITRANSIT_PRIMARY_KEY"`
	DigitransitBaseURL    string  `mapstructure:"DIGITRANSIT_BASE_URL"`
	DigitransitRouter     string  `mapstructure:"DIGITRANSIT_ROUTER"`
	DigitransitRPS        float64 `mapstructure:"DIGITRANSIT_RPS"`
	PlanDate              string  `mapstructure:"PLAN_DATE"`
	PlanTime              string  `mapstructure:"PLAN_TIME"`
	GeocodeBoundaryLat    float64 `mapstructure:"GEOCODE_BOUNDARY_LAT"`
	GeocodeBoundaryLon    float64 `mapstructure:"GEOCODE_BOUNDARY_LON"`
	GeocodeBoundaryRadius float64 `mapstructure:"GEOCODE_BOUNDARY_RADIUS"`

	WaypointsPath  string `mapstructure:"WAYPOINTS_PATH"`
	WaypointSource string `mapstructure:"WAYPOINT_SOURCE"`
	MatrixStore    string `mapstructure:"MATRIX_STORE"`
	MatrixPath     string `mapstructure:"MATRIX_PATH"`
	SeedPath       string `mapstructure:"SEED_PATH"`

	SearchWorkers    int    `mapstructure:"SEARCH_WORKERS"`
	ProgressEvery    uint64 `mapstructure:"PROGRESS_EVERY"`
	CostModel        string `mapstructure:"COST_MODEL"`
	TrackWorst       bool   `mapstructure:"TRACK_WORST"`
	FetchConcurrency int    `mapstructure:"FETCH_CONCURRENCY"`
}

var defaults = map[string]any{
	"ENVIRONMENT": "development",
	"LOG_LEVEL":   "info",
	"PORT":        "8080",

	"DATABASE_URL":   "",
	"REDIS_ADDRESS":  "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_TTL":      "720h",

	"DIGITRANSIT_PRIMARY_KEY": "",
	"DIGITRANSIT_BASE_URL":    "https://api.digitransit.fi",
	"DIGITRANSIT_ROUTER":      "hsl",
	"DIGITRANSIT_RPS":         5.0,
	"PLAN_DATE":               "2023-10-07",
	"PLAN_TIME":               "12:00:00",
	"GEOCODE_BOUNDARY_LAT":    60.2,
	"GEOCODE_BOUNDARY_LON":    24.936,
	"GEOCODE_BOUNDARY_RADIUS": 30.0,

	"WAYPOINTS_PATH":  "addresses.json",
	"WAYPOINT_SOURCE": "file",
	"MATRIX_STORE":    "file",
	"MATRIX_PATH":     "itineraries.json",
	"SEED_PATH":       "addresses.json",

	"SEARCH_WORKERS":    0,
	"PROGRESS_EVERY":    100000,
	"COST_MODEL":        "boundary",
	"TRACK_WORST":       true,
	"FETCH_CONCURRENCY": 4,
}

var (
	waypointSources = []string{"file", "postgres"}
	matrixStores    = []string{"file", "postgres", "redis"}
)

// Load reads configuration from environment variables on top of the defaults.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg.RedisPassword = trimOptionalQuotes(cfg.RedisPassword)
	cfg.DigitransitPrimaryKey = trimOptionalQuotes(cfg.DigitransitPrimaryKey)
	cfg.WaypointSource = strings.ToLower(strings.TrimSpace(cfg.WaypointSource))
	cfg.MatrixStore = strings.ToLower(strings.TrimSpace(cfg.MatrixStore))

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c Config) validate() error {
	if !oneOf(c.WaypointSource, waypointSources) {
		return fmt.Errorf("WAYPOINT_SOURCE must be one of %v, got %q", waypointSources, c.WaypointSource)
	}
	if !oneOf(c.MatrixStore, matrixStores) {
		return fmt.Errorf("MATRIX_STORE must be one of %v, got %q", matrixStores, c.MatrixStore)
	}
	if (c.WaypointSource == "postgres" || c.MatrixStore == "postgres") && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required when a postgres source is selected")
	}
	if c.SearchWorkers < 0 {
		return fmt.Errorf("SEARCH_WORKERS must not be negative, got %d", c.SearchWorkers)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", c.FetchConcurrency)
	}
	return nil
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

func trimOptionalQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return s
}
