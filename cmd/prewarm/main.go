// Command prewarm runs every category search for a list of locations so the
// Redis cache is hot before traffic arrives.
package main

import (
	"context"
	"flag"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"smart_travel/internal/adapters/observability"
	"smart_travel/internal/bootstrap"
	"smart_travel/internal/shared"
)

func main() {
	locations := flag.String("locations", "Ooty,Chennai", "comma-separated locations")
	workers := flag.Int("workers", 2, "locations processed concurrently")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if cfg.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty; prewarm results will not be kept")
	}
	svc, closeAll, err := bootstrap.Services(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}
	defer closeAll()

	var list []string
	for _, l := range strings.Split(*locations, ",") {
		if l = strings.TrimSpace(l); l != "" {
			list = append(list, l)
		}
	}
	log.Info().Int("locations", len(list)).Int("workers", *workers).Msg("prewarm starting")

	if *workers < 1 {
		*workers = 1
	}
	sem := semaphore.NewWeighted(int64(*workers))
	var wg sync.WaitGroup

	for _, loc := range list {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(loc string) {
			defer wg.Done()
			defer sem.Release(1)

			for _, res := range svc.SearchAll(ctx, loc) {
				if res.Err != nil {
					log.Warn().Str("location", loc).Str("category", res.Category.String()).Err(res.Err).Msg("prewarm failed")
					continue
				}
				log.Info().Str("location", loc).Str("category", res.Category.String()).Int("places", len(res.Places)).Msg("prewarm ok")
			}
		}(loc)
	}

	wg.Wait()
	log.Info().Msg("prewarm completed")
}
