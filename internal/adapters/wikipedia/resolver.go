package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"smart_travel/internal/adapters/observability"
	"smart_travel/internal/domain"
)

var errStatus = errors.New("summary lookup failed")

// Resolver finds a representative thumbnail for a place name via the
// page-summary endpoint.
type Resolver struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int, timeout time.Duration) *Resolver {
	if rps <= 0 {
		rps = 20
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// ResolveImage always returns a usable URL: the summary thumbnail when there
// is one, otherwise domain.PlaceholderImageURL.
func (r *Resolver) ResolveImage(ctx context.Context, name string) string {
	src, err := r.Lookup(ctx, name)
	if err != nil {
		log.Debug().Str("name", name).Err(err).Msg("image lookup fell back to placeholder")
		return domain.PlaceholderImageURL
	}
	return src
}

// Lookup returns the summary thumbnail for name. An error wrapping
// domain.ErrNoImage means the page has no image (or does not exist); any
// other error is a transport, status or decode failure worth retrying later.
func (r *Resolver) Lookup(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		observability.ObserveImageFallback("empty_name")
		return "", domain.ErrNoImage
	}
	if err := r.rl.Wait(ctx); err != nil {
		observability.ObserveImageFallback("transport")
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.summaryURL(name), nil)
	if err != nil {
		observability.ObserveImageFallback("transport")
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("wikipedia", "summary", 0, time.Since(start))
		observability.ObserveImageFallback("transport")
		return "", err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("wikipedia", "summary", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		io.Copy(io.Discard, resp.Body)
		observability.ObserveImageFallback("not_found")
		return "", fmt.Errorf("%w: status %d", domain.ErrNoImage, resp.StatusCode)
	default:
		io.Copy(io.Discard, resp.Body)
		observability.ObserveImageFallback("status")
		return "", fmt.Errorf("%w: status %d", errStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		observability.ObserveImageFallback("transport")
		return "", fmt.Errorf("read summary: %w", err)
	}
	if !gjson.ValidBytes(body) {
		observability.ObserveImageFallback("decode")
		return "", errors.New("decode summary: invalid JSON")
	}
	src := gjson.GetBytes(body, "thumbnail.source")
	if src.Type != gjson.String || strings.TrimSpace(src.Str) == "" {
		observability.ObserveImageFallback("no_thumbnail")
		return "", domain.ErrNoImage
	}
	return src.Str, nil
}

// summaryURL escapes the title as a single path segment; spaces become %20.
func (r *Resolver) summaryURL(name string) string {
	return r.base + "/page/summary/" + url.PathEscape(name)
}
