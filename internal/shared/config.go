package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	MySQLDSN  string // empty disables the search log
	RedisAddr string // empty disables the cache
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	NominatimBase  string
	NominatimUA    string
	NominatimRPS   int
	WikipediaBase  string
	WikipediaRPS   int
	OverpassURL    string // empty disables the nearby fallback
	OverpassRadius int    // meters
	MapsBase       string
	OSMBase        string

	EnrichWorkers int
	ClientTimeout time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		MySQLDSN:       os.Getenv("MYSQL_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		NominatimBase:  env("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUA:    env("NOMINATIM_USER_AGENT", "Travel-App"),
		NominatimRPS:   atoi("NOMINATIM_RPS", 1),
		WikipediaBase:  env("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org/api/rest_v1"),
		WikipediaRPS:   atoi("WIKIPEDIA_RPS", 20),
		OverpassURL:    os.Getenv("OVERPASS_URL"),
		OverpassRadius: atoi("OVERPASS_RADIUS_M", 5000),
		MapsBase:       env("MAPS_BASE_URL", "https://www.google.com/maps"),
		OSMBase:        env("OSM_BASE_URL", "https://www.openstreetmap.org"),
		EnrichWorkers:  atoi("ENRICH_WORKERS", 4),
		ClientTimeout:  time.Duration(atoi("HTTP_CLIENT_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if c.EnrichWorkers < 1 {
		c.EnrichWorkers = 1
	}
	if c.NominatimUA == "" {
		log.Warn().Msg("NOMINATIM_USER_AGENT is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
