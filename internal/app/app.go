package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"transit-tour-service/internal/adapters/cache"
	"transit-tour-service/internal/adapters/digitransit"
	"transit-tour-service/internal/adapters/matrixstore"
	"transit-tour-service/internal/adapters/repositories"
	"transit-tour-service/internal/api/handlers"
	"transit-tour-service/internal/config"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/db"
	"transit-tour-service/internal/ports"
	"transit-tour-service/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App holds the concrete adapters selected by configuration.
type App struct {
	Repo     ports.WaypointRepository
	Loader   *services.MatrixLoader
	Defaults services.SearchOptions
	// Checks probe the backing services this App connected to.
	Checks map[string]handlers.CheckFunc

	closers []func() error
}

// New wires adapters behind ports according to cfg. Close releases every
// connection New opened.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Checks: map[string]handlers.CheckFunc{}}

	defaults, err := SearchDefaults(cfg)
	if err != nil {
		return nil, err
	}
	a.Defaults = defaults

	var conn *sql.DB
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		conn, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("new app: %w", err)
		}
		a.closers = append(a.closers, conn.Close)
		a.Checks["database"] = conn.PingContext

		if err := repositories.InitSchema(ctx, conn); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("new app: %w", err)
		}
	}

	switch cfg.WaypointSource {
	case "postgres":
		a.Repo = repositories.NewSQLWaypointRepository(conn)
	default:
		a.Repo = repositories.NewJSONWaypointRepository(cfg.WaypointsPath)
	}

	store, err := a.matrixStore(ctx, cfg, conn)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("new app: %w", err)
	}

	a.Loader = &services.MatrixLoader{
		Store:       store,
		Concurrency: cfg.FetchConcurrency,
	}

	if strings.TrimSpace(cfg.DigitransitPrimaryKey) == "" {
		log.Warn().Msg("DIGITRANSIT_PRIMARY_KEY not set, only stored itineraries can be used")
		return a, nil
	}

	var geocodeCache ports.GeocodeCache
	if conn != nil {
		geocodeCache = cache.NewSQLGeocodeCache(conn)
	}

	provider, err := digitransit.NewProvider(digitransit.Config{
		APIKey:   cfg.DigitransitPrimaryKey,
		BaseURL:  cfg.DigitransitBaseURL,
		Router:   cfg.DigitransitRouter,
		PlanDate: cfg.PlanDate,
		PlanTime: cfg.PlanTime,
		BoundaryCenter: domain.Coordinates{
			Lat: cfg.GeocodeBoundaryLat,
			Lon: cfg.GeocodeBoundaryLon,
		},
		BoundaryRadiusKm:  cfg.GeocodeBoundaryRadius,
		RequestsPerSecond: cfg.DigitransitRPS,
	}, geocodeCache)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("new app: %w", err)
	}
	a.Loader.Geocoder = provider
	a.Loader.Itineraries = provider

	return a, nil
}

func (a *App) matrixStore(ctx context.Context, cfg config.Config, conn *sql.DB) (ports.MatrixStore, error) {
	switch cfg.MatrixStore {
	case "postgres":
		return matrixstore.NewSQLStore(conn), nil
	case "redis":
		client, err := matrixstore.Dial(ctx, cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return matrixstore.NewRedisStore(client, cfg.RedisTTL), nil
	default:
		return matrixstore.NewJSONFileStore(cfg.MatrixPath), nil
	}
}

// SearchDefaults maps configuration onto search options.
func SearchDefaults(cfg config.Config) (services.SearchOptions, error) {
	model, err := services.ParseCostModel(cfg.CostModel)
	if err != nil {
		return services.SearchOptions{}, fmt.Errorf("search defaults: %w", err)
	}
	return services.SearchOptions{
		Workers:       cfg.SearchWorkers,
		ProgressEvery: cfg.ProgressEvery,
		CostModel:     model,
		TrackWorst:    cfg.TrackWorst,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
