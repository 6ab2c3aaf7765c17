package domain

import "context"

type SearchClient interface {
	Search(ctx context.Context, query string) ([]PlaceRecord, error)
}

// Geocoder resolves a bare location to a single point.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (PlaceRecord, bool, error)
}

// ImageResolver never fails; it yields PlaceholderImageURL when nothing better exists.
type ImageResolver interface {
	ResolveImage(ctx context.Context, name string) string
}

// NearbyFinder looks up category venues around a point.
type NearbyFinder interface {
	Nearby(ctx context.Context, c Category, lat, lon float64, limit int) ([]PlaceRecord, error)
}

type PriceQuoter interface {
	Quote(ctx context.Context, c Category, p PlaceRecord) (PriceNote, bool)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type SearchLog interface {
	Record(ctx context.Context, e SearchLogEntry) error
	Recent(ctx context.Context, limit int) ([]SearchLogEntry, error)
}
