package domain

import "strings"

// PlaceholderImageURL is returned whenever no thumbnail can be resolved for a place.
const PlaceholderImageURL = "https://via.placeholder.com/400x250?text=No+Image"

// NotAvailable replaces a missing phone number on rendered cards.
const NotAvailable = "Not available"

// PlaceRecord is a single search hit as returned by the search provider.
type PlaceRecord struct {
	DisplayName string
	OSMType     string
	OSMID       int64
	ExtraTags   map[string]string
	Lat         float64
	Lon         float64
}

// Title is the first comma-separated segment of the display name.
func (p PlaceRecord) Title() string {
	name, _, _ := strings.Cut(p.DisplayName, ",")
	return strings.TrimSpace(name)
}

// Tag returns the extra tag k; a nil tag map reads as empty.
func (p PlaceRecord) Tag(k string) (string, bool) {
	v, ok := p.ExtraTags[k]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func (p PlaceRecord) Phone() string {
	if v, ok := p.Tag("phone"); ok {
		return v
	}
	return NotAvailable
}

func (p PlaceRecord) Website() string {
	v, _ := p.Tag("website")
	return v
}

// EnrichedPlace is a PlaceRecord with its image resolved. ImageURL is never empty.
type EnrichedPlace struct {
	PlaceRecord
	ImageURL string
}

// PriceNote is a display-only price hint. Stubbed notes do not come from any pricing source.
type PriceNote struct {
	Text    string `json:"text"`
	Stubbed bool   `json:"stubbed"`
}

// Card is the render model for one place.
type Card struct {
	Category    Category
	Title       string
	Blurb       string
	Phone       string
	Website     string
	ImageURL    string
	LocationURL string
	Price       *PriceNote
}

// CategoryResult is the outcome of one category search. Err is set when the
// provider could not be queried; Places and Cards are then empty.
type CategoryResult struct {
	Category Category
	Query    string
	Places   []EnrichedPlace
	Cards    []Card
	Err      error
}

type RoutePlan struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	URL         string `json:"url"`
}

// SearchLogEntry records one category search.
type SearchLogEntry struct {
	ID        int64
	Location  string
	Category  string
	Query     string
	Results   int
	Status    string // ok|empty|unavailable
	Reason    string
	CreatedAt string
}
