package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ENRICH_WORKERS", "NOMINATIM_USER_AGENT", "CACHE_TTL_SECONDS", "REDIS_ADDR", "MYSQL_DSN"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.NominatimUA != "Travel-App" {
		t.Fatalf("user agent default: %q", c.NominatimUA)
	}
	if c.EnrichWorkers != 4 || c.CacheTTL != 900*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.RedisAddr != "" || c.MySQLDSN != "" {
		t.Fatalf("optional backends should be disabled by default: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENRICH_WORKERS", "0")
	t.Setenv("NOMINATIM_RPS", "abc")
	t.Setenv("HTTP_CLIENT_TIMEOUT_SECONDS", "3")
	c := Load()
	if c.EnrichWorkers != 1 {
		t.Fatalf("workers should clamp to 1, got %d", c.EnrichWorkers)
	}
	if c.NominatimRPS != 1 {
		t.Fatalf("bad number should keep default, got %d", c.NominatimRPS)
	}
	if c.ClientTimeout != 3*time.Second {
		t.Fatalf("timeout: %v", c.ClientTimeout)
	}
}
