// Package bootstrap wires configuration into a ready PlacesService.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"smart_travel/internal/adapters/nominatim"
	"smart_travel/internal/adapters/overpass"
	redisad "smart_travel/internal/adapters/redis"
	"smart_travel/internal/adapters/wikipedia"
	"smart_travel/internal/app"
	"smart_travel/internal/links"
	"smart_travel/internal/shared"
	mysqlrepo "smart_travel/internal/storage/mysql"
)

// Services builds the orchestrator and its optional backends. Redis and MySQL
// are skipped when unconfigured and tolerated when unreachable; the returned
// close func releases whatever was opened.
func Services(ctx context.Context, cfg shared.Config) (*app.PlacesService, func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn().Err(err).Msg("close failed")
			}
		}
	}

	search, err := nominatim.New(cfg.NominatimBase, cfg.NominatimUA, cfg.NominatimRPS, cfg.ClientTimeout)
	if err != nil {
		return nil, closeAll, fmt.Errorf("search client: %w", err)
	}
	opts := app.Options{
		CacheTTL: cfg.CacheTTL,
		Links:    links.New(cfg.MapsBase, cfg.OSMBase),
		Workers:  cfg.EnrichWorkers,
		Quoter:   app.FixedPriceQuoter{},
	}

	if cfg.RedisAddr != "" {
		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := cache.Ping(pctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; caching disabled")
			_ = cache.Close()
		} else {
			opts.Cache = cache
			closers = append(closers, cache.Close)
			log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("redis cache enabled")
		}
	}

	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, closeAll, fmt.Errorf("sql.Open: %w", err)
		}
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = db.PingContext(pctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("mysql unreachable; search log disabled")
			_ = db.Close()
		} else {
			opts.Log = mysqlrepo.New(db)
			closers = append(closers, db.Close)
			log.Info().Msg("search log enabled")
		}
	}

	if cfg.OverpassURL != "" {
		opts.Fallback = overpass.New(cfg.OverpassURL, cfg.OverpassRadius, cfg.ClientTimeout)
		opts.Geocoder = search
		log.Info().Str("url", cfg.OverpassURL).Int("radius_m", cfg.OverpassRadius).Msg("nearby fallback enabled")
	}

	images := wikipedia.New(cfg.WikipediaBase, cfg.WikipediaRPS, cfg.ClientTimeout)
	return app.NewPlacesService(search, images, opts), closeAll, nil
}
