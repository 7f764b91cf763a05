package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"transit-tour-service/internal/app"
	"transit-tour-service/internal/config"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/logging"
	"transit-tour-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// main loads the waypoints, builds or reuses the cost matrix, runs the
// exhaustive search once and prints the result.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot wire dependencies")
	}
	defer a.Close()

	opts := a.Defaults
	opts.OnProgress = func(p services.Progress) {
		log.Info().
			Uint64("evaluated", p.Evaluated).
			Uint64("total", p.Total).
			Str("percent", fmt.Sprintf("%.2f", p.Percent)).
			Msg("search progress")
	}

	res, err := services.PlanTour(ctx, services.PlanTourRequest{Search: opts}, a.Repo, a.Loader)
	if err != nil {
		log.Fatal().Err(err).Msg("plan tour failed")
	}

	printSolution("Best", res.Best)
	if res.Worst != nil {
		printSolution("Worst", *res.Worst)
	}
	fmt.Printf("Evaluated %d of %d orderings in %s (cost model: %s)\n", res.Evaluated, res.Total, res.Elapsed, res.CostModel)
}

func printSolution(label string, s domain.Solution) {
	m := s.Metrics
	fmt.Printf("%s tour: %s\n", label, strings.Join(s.Waypoints, " -> "))
	fmt.Printf("  Duration: %.0f min (with start/end: %.0f min)\n", m.PathDuration/60, m.Comparison/60)
	fmt.Printf("  Distance: %.1f km, walk distance: %.1f km\n", m.PathDistance/1000, m.WalkDistance/1000)

	for i, it := range s.Itineraries {
		fmt.Printf("  %s -> %s: %.0f min\n", s.Waypoints[i], s.Waypoints[i+1], it.Duration/60)
		for _, leg := range it.Legs {
			line := leg.Line()
			if line == "" {
				fmt.Printf("    %-6s %5.0f m %4.0f min\n", leg.Mode, leg.Distance, leg.Duration/60)
				continue
			}
			fmt.Printf("    %-6s %5.0f m %4.0f min (line %s)\n", leg.Mode, leg.Distance, leg.Duration/60, line)
		}
	}
}
