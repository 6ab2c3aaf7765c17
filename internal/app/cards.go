package app

import (
	"context"

	"smart_travel/internal/domain"
)

// FixedPriceQuoter is a placeholder for a real rates integration: it quotes a
// flat nightly price for hotels and marks every note as stubbed.
type FixedPriceQuoter struct{}

func (FixedPriceQuoter) Quote(_ context.Context, c domain.Category, _ domain.PlaceRecord) (domain.PriceNote, bool) {
	if c != domain.Hotel {
		return domain.PriceNote{}, false
	}
	return domain.PriceNote{Text: "₹2500 / night", Stubbed: true}, true
}

func (s *PlacesService) cards(ctx context.Context, c domain.Category, places []domain.EnrichedPlace) []domain.Card {
	out := make([]domain.Card, 0, len(places))
	for _, p := range places {
		card := domain.Card{
			Category:    c,
			Title:       p.Title(),
			Blurb:       c.Blurb(),
			Phone:       p.Phone(),
			Website:     p.Website(),
			ImageURL:    p.ImageURL,
			LocationURL: s.PlaceLink(p.PlaceRecord),
		}
		if note, ok := s.quoter.Quote(ctx, c, p.PlaceRecord); ok {
			card.Price = &note
		}
		out = append(out, card)
	}
	return out
}
