package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"smart_travel/internal/adapters/observability"
	"smart_travel/internal/domain"
	"smart_travel/internal/links"
)

// Unavailable is the user-facing text for a category whose provider failed.
const Unavailable = "no results / provider unavailable"

// DefaultCacheTTL applies when Options.CacheTTL is not positive.
const DefaultCacheTTL = 15 * time.Minute

// Options tune PlacesService. Zero values are usable.
type Options struct {
	Cache    domain.Cache
	CacheTTL time.Duration
	Log      domain.SearchLog
	Fallback domain.NearbyFinder
	Geocoder domain.Geocoder
	Quoter   domain.PriceQuoter
	Links    links.Builder
	Workers  int
}

// PlacesService runs the per-category search and enrichment pipeline.
type PlacesService struct {
	search    domain.SearchClient
	images    domain.ImageResolver
	cache     domain.Cache
	cacheTTL  time.Duration
	searchLog domain.SearchLog
	fallback  domain.NearbyFinder
	geocoder  domain.Geocoder
	quoter    domain.PriceQuoter
	links     links.Builder
	workers   int
}

func NewPlacesService(s domain.SearchClient, img domain.ImageResolver, o Options) *PlacesService {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Links == (links.Builder{}) {
		o.Links = links.New("", "")
	}
	if o.Quoter == nil {
		o.Quoter = FixedPriceQuoter{}
	}
	return &PlacesService{
		search:    s,
		images:    img,
		cache:     o.Cache,
		cacheTTL:  o.CacheTTL,
		searchLog: o.Log,
		fallback:  o.Fallback,
		geocoder:  o.Geocoder,
		quoter:    o.Quoter,
		links:     o.Links,
		workers:   o.Workers,
	}
}

// SearchAll runs every category for location in render order. A failing
// category never prevents the others from rendering.
func (s *PlacesService) SearchAll(ctx context.Context, location string) []domain.CategoryResult {
	out := make([]domain.CategoryResult, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, s.SearchCategory(ctx, location, c))
	}
	return out
}

// SearchCategory issues one provider search for c and enriches each hit with an image.
func (s *PlacesService) SearchCategory(ctx context.Context, location string, c domain.Category) domain.CategoryResult {
	location = strings.TrimSpace(location)
	res := domain.CategoryResult{Category: c, Query: c.Query(location)}
	if location == "" {
		res.Err = domain.ErrEmptyLocation
		return res
	}

	key := fmt.Sprintf("places:%s:%s", c, strings.ToLower(location))
	var cached []domain.EnrichedPlace
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			res.Places = cached
			res.Cards = s.cards(ctx, c, cached)
			return res
		}
	}

	recs, err := s.search.Search(ctx, res.Query)
	if err != nil {
		if !errors.Is(err, domain.ErrSearchUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
		}
		log.Warn().Str("category", c.String()).Str("query", res.Query).Err(err).Msg("category search failed")
		observability.ObserveSearchFailure(c.String())
		res.Err = err
		s.record(ctx, location, res, "unavailable", err.Error())
		return res
	}
	if len(recs) == 0 {
		recs = s.nearby(ctx, location, c)
	}

	var transient bool
	res.Places, transient = s.enrich(ctx, recs)
	res.Cards = s.cards(ctx, c, res.Places)

	status := "ok"
	if len(res.Places) == 0 {
		status = "empty"
	}
	s.record(ctx, location, res, status, "")
	if s.cache != nil && len(res.Places) > 0 && !transient {
		if err := s.cache.Set(ctx, key, res.Places, s.ttlSeconds()); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return res
}

// PlanRoute builds the driving deep link. It never touches the network.
func (s *PlacesService) PlanRoute(origin, destination string) (domain.RoutePlan, error) {
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return domain.RoutePlan{}, domain.ErrEmptyLocation
	}
	return domain.RoutePlan{
		Origin:      origin,
		Destination: destination,
		URL:         s.links.RouteLink(origin, destination),
	}, nil
}

// PlaceLink is the map-viewer URL for p.
func (s *PlacesService) PlaceLink(p domain.PlaceRecord) string {
	return s.links.PlaceLink(p.OSMType, p.OSMID)
}

// RecentSearches lists the search log, newest first.
func (s *PlacesService) RecentSearches(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if s.searchLog == nil {
		return nil, domain.ErrNotFound
	}
	return s.searchLog.Recent(ctx, limit)
}

// nearby asks the fallback finder around the geocoded location. Any failure
// leaves the category empty.
func (s *PlacesService) nearby(ctx context.Context, location string, c domain.Category) []domain.PlaceRecord {
	if s.fallback == nil || s.geocoder == nil {
		return nil
	}
	at, ok, err := s.geocoder.Geocode(ctx, location)
	if err != nil || !ok {
		log.Debug().Err(err).Str("location", location).Msg("nearby fallback: geocode gave nothing")
		return nil
	}
	recs, err := s.fallback.Nearby(ctx, c, at.Lat, at.Lon, maxPlaces)
	if err != nil {
		log.Warn().Err(err).Str("category", c.String()).Msg("nearby fallback failed")
		return nil
	}
	return recs
}

const maxPlaces = 6

// imageLookup is implemented by resolvers that can tell a definitive miss
// (an error wrapping domain.ErrNoImage) from a transient failure.
type imageLookup interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// enrich resolves images with at most s.workers lookups in flight. Output
// order matches input order. transient reports whether any place fell back
// to the placeholder because the image provider failed.
func (s *PlacesService) enrich(ctx context.Context, recs []domain.PlaceRecord) (out []domain.EnrichedPlace, transient bool) {
	out = make([]domain.EnrichedPlace, len(recs))
	failed := make([]bool, len(recs))
	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, r := range recs {
		i, r := i, r
		g.Go(func() error {
			u, ok := s.image(ctx, r.DisplayName)
			out[i] = domain.EnrichedPlace{PlaceRecord: r, ImageURL: u}
			failed[i] = !ok
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	for _, f := range failed {
		transient = transient || f
	}
	return out, transient
}

// image returns the image URL for name and whether it is final. Placeholders
// caused by provider failures are not final and never cached.
func (s *PlacesService) image(ctx context.Context, name string) (string, bool) {
	key := "image:" + name
	var u string
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &u); ok && u != "" {
			return u, true
		}
	}

	final := true
	if lk, ok := s.images.(imageLookup); ok {
		src, err := lk.Lookup(ctx, name)
		switch {
		case err == nil && src != "":
			u = src
		case err == nil || errors.Is(err, domain.ErrNoImage):
			u = domain.PlaceholderImageURL
		default:
			log.Debug().Str("name", name).Err(err).Msg("image lookup failed; placeholder not cached")
			u, final = domain.PlaceholderImageURL, false
		}
	} else {
		u = s.images.ResolveImage(ctx, name)
		if u == "" {
			u = domain.PlaceholderImageURL
		}
		// a bare resolver cannot say why it fell back
		final = u != domain.PlaceholderImageURL
	}

	if s.cache != nil && final {
		_ = s.cache.Set(ctx, key, u, s.ttlSeconds())
	}
	return u, final
}

func (s *PlacesService) ttlSeconds() int { return int(s.cacheTTL.Seconds()) }

func (s *PlacesService) record(ctx context.Context, location string, res domain.CategoryResult, status, reason string) {
	if s.searchLog == nil {
		return
	}
	e := domain.SearchLogEntry{
		Location: location,
		Category: res.Category.String(),
		Query:    res.Query,
		Results:  len(res.Places),
		Status:   status,
		Reason:   reason,
	}
	if err := s.searchLog.Record(ctx, e); err != nil {
		log.Warn().Err(err).Msg("search log write failed")
	}
}
