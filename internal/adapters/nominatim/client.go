// internal/adapters/nominatim/client.go
package nominatim

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"smart_travel/internal/adapters/observability"
	"smart_travel/internal/domain"
)

// MaxResults is the number of records requested per search.
const MaxResults = 6

const maxAttempts = 3

type Client struct {
	base string
	hc   *http.Client
	ua   string
	rl   *rate.Limiter
}

// New builds a search client. The provider's usage policy requires an
// identifying User-Agent, so an empty ua is rejected.
func New(base, ua string, rps int, timeout time.Duration) (*Client, error) {
	if ua == "" {
		return nil, fmt.Errorf("user agent is required")
	}
	if _, err := url.Parse(base); err != nil || base == "" {
		return nil, fmt.Errorf("invalid base URL %q", base)
	}
	if rps <= 0 {
		rps = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		ua:   ua,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

// Search runs one free-text query and returns up to MaxResults places in
// provider order. Zero hits is an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]domain.PlaceRecord, error) {
	body, err := c.get(ctx, "search", c.searchURL(query, MaxResults))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	places, err := parsePlaces(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	return places, nil
}

// Geocode resolves a bare location to its best match.
func (c *Client) Geocode(ctx context.Context, location string) (domain.PlaceRecord, bool, error) {
	body, err := c.get(ctx, "geocode", c.searchURL(location, 1))
	if err != nil {
		return domain.PlaceRecord{}, false, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	places, err := parsePlaces(body)
	if err != nil {
		return domain.PlaceRecord{}, false, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	if len(places) == 0 {
		return domain.PlaceRecord{}, false, nil
	}
	return places[0], true, nil
}

func (c *Client) searchURL(q string, limit int) string {
	v := url.Values{}
	v.Set("q", q)
	v.Set("format", "json")
	v.Set("extratags", "1")
	v.Set("limit", strconv.Itoa(limit))
	return c.base + "/search?" + v.Encode()
}

// ---- Parsing ----

var errNotArray = errors.New("response is not a JSON array")

func parsePlaces(body []byte) ([]domain.PlaceRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, errNotArray
	}
	out := make([]domain.PlaceRecord, 0, MaxResults)
	root.ForEach(func(_, item gjson.Result) bool {
		if p, ok := parsePlace(item); ok {
			out = append(out, p)
		}
		return len(out) < MaxResults
	})
	return out, nil
}

func parsePlace(item gjson.Result) (domain.PlaceRecord, bool) {
	if !item.IsObject() {
		return domain.PlaceRecord{}, false
	}
	name := strings.TrimSpace(item.Get("display_name").String())
	if name == "" {
		return domain.PlaceRecord{}, false
	}
	p := domain.PlaceRecord{
		DisplayName: name,
		OSMType:     item.Get("osm_type").String(),
		OSMID:       item.Get("osm_id").Int(), // number or numeric string
		ExtraTags:   map[string]string{},
		Lat:         item.Get("lat").Float(),
		Lon:         item.Get("lon").Float(),
	}
	// extratags may be missing, null, a list or a scalar; only an object counts
	if tags := item.Get("extratags"); tags.IsObject() {
		tags.ForEach(func(k, v gjson.Result) bool {
			if v.Type != gjson.Null {
				p.ExtraTags[k.String()] = v.String()
			}
			return true
		})
	}
	return p, true
}

// ---- Transport ----

// get performs a rate-limited GET and returns the body of a 2xx response.
// endpoint only labels metrics.
// 429 and transient 5xx are retried, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, u string) ([]byte, error) {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.ua)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("nominatim", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return nil, lastErr
		}
		observability.ObserveExternal("nominatim", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			resp.Body.Close()
			return b, err

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return nil, lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date), capped at 5s. Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	var d time.Duration
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		d = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(h); err == nil {
		d = time.Until(t)
	}
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	if d < 0 {
		return 0
	}
	return d
}

// backoff doubles from 250ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 250 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
