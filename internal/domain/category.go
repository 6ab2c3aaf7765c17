package domain

import (
	"fmt"
	"strings"
)

type Category int

const (
	Hotel Category = iota
	CarRental
	BikeRental
)

// Categories lists every category in render order.
var Categories = []Category{Hotel, CarRental, BikeRental}

type categoryInfo struct {
	slug, label, blurb, icon string
	osmKey, osmValue         string
}

var categoryTable = map[Category]categoryInfo{
	Hotel:      {"hotel", "hotels in", "Comfortable stay with basic amenities.", "🏨", "tourism", "hotel"},
	CarRental:  {"car_rental", "car rental in", "Reliable car rental service.", "🚗", "amenity", "car_rental"},
	BikeRental: {"bike_rental", "bike rental in", "Affordable bikes for travel.", "🏍️", "amenity", "bicycle_rental"},
}

func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if categoryTable[c].slug == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) String() string { return categoryTable[c].slug }
func (c Category) Blurb() string { return categoryTable[c].blurb }
func (c Category) Icon() string { return categoryTable[c].icon }

// Query builds the free-text provider query, e.g. "hotels in Ooty".
func (c Category) Query(location string) string {
	return categoryTable[c].label + " " + location
}

// OSMTag is the key/value pair venues of this category carry in OpenStreetMap.
func (c Category) OSMTag() (string, string) {
	i := categoryTable[c]
	return i.osmKey, i.osmValue
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
