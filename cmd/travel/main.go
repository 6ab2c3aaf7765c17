// Command travel prints venue cards and an optional route link for one location.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"smart_travel/internal/adapters/observability"
	"smart_travel/internal/app"
	"smart_travel/internal/bootstrap"
	"smart_travel/internal/domain"
	"smart_travel/internal/shared"
)

func main() {
	location := flag.String("location", "", "place to search around, e.g. Ooty")
	start := flag.String("start", "", "start location for the driving route")
	category := flag.String("category", "", "hotel, car_rental or bike_rental (default: all)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := shared.Load()
	// logs go to stderr so stdout stays the rendered cards
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv, cfg.LogLevel)

	if *location == "" {
		fmt.Fprintln(os.Stderr, "usage: travel -location <place> [-start <place>] [-category <slug>]")
		os.Exit(2)
	}

	svc, closeAll, err := bootstrap.Services(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}
	defer closeAll()

	var route *domain.RoutePlan
	if *start != "" {
		rp, err := svc.PlanRoute(*start, *location)
		if err != nil {
			log.Fatal().Err(err).Msg("route")
		}
		route = &rp
	}

	var results []domain.CategoryResult
	if *category == "" {
		results = svc.SearchAll(ctx, *location)
	} else {
		c, err := domain.ParseCategory(*category)
		if err != nil {
			log.Fatal().Err(err).Msg("bad -category")
		}
		results = []domain.CategoryResult{svc.SearchCategory(ctx, *location, c)}
	}

	if err := app.RenderCards(os.Stdout, results, route); err != nil {
		log.Fatal().Err(err).Msg("render failed")
	}
}
