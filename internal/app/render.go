package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"smart_travel/internal/domain"
)

var headings = map[domain.Category]string{
	domain.Hotel:      "Room Stays",
	domain.CarRental:  "Car Rentals",
	domain.BikeRental: "Bike Rentals",
}

// RenderCards writes the results as plain markdown. route may be nil.
func RenderCards(w io.Writer, results []domain.CategoryResult, route *domain.RoutePlan) error {
	var b strings.Builder
	if route != nil {
		fmt.Fprintf(&b, "## 🗺️ Route & Traffic\n\n")
		fmt.Fprintf(&b, "👉 [Open Google Maps Route](%s)\n", route.URL)
		fmt.Fprintf(&b, "Live traffic & travel time shown in Google Maps\n\n")
	}
	for _, res := range results {
		fmt.Fprintf(&b, "## %s %s\n\n", res.Category.Icon(), headings[res.Category])
		switch {
		case errors.Is(res.Err, domain.ErrEmptyLocation):
			b.WriteString("enter a location to search\n\n")
			continue
		case res.Err != nil:
			b.WriteString(Unavailable + "\n\n")
			continue
		case len(res.Cards) == 0:
			b.WriteString("no results\n\n")
			continue
		}
		for _, c := range res.Cards {
			renderCard(&b, c)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderCard(b *strings.Builder, c domain.Card) {
	fmt.Fprintf(b, "### %s %s\n", c.Category.Icon(), c.Title)
	fmt.Fprintf(b, "![image](%s)\n", c.ImageURL)
	if c.Price != nil {
		if c.Price.Stubbed {
			fmt.Fprintf(b, "%s (estimate)\n", c.Price.Text)
		} else {
			fmt.Fprintf(b, "%s\n", c.Price.Text)
		}
	}
	fmt.Fprintf(b, "%s\n", c.Blurb)
	fmt.Fprintf(b, "📞 %s\n", c.Phone)
	if c.Website != "" {
		fmt.Fprintf(b, "🌐 %s\n", c.Website)
	}
	fmt.Fprintf(b, "📍 [Location](%s)\n\n", c.LocationURL)
}
