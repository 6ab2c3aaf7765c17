// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"smart_travel/internal/app"
	"smart_travel/internal/domain"
)

type Handlers struct{ Q *app.PlacesService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type placeDTO struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	OSMType     string            `json:"osm_type"`
	OSMID       int64             `json:"osm_id"`
	Blurb       string            `json:"blurb"`
	Phone       string            `json:"phone"`
	Website     string            `json:"website,omitempty"`
	ImageURL    string            `json:"image_url"`
	LocationURL string            `json:"location_url"`
	Price       *domain.PriceNote `json:"price,omitempty"`
}

type categoryDTO struct {
	Category string     `json:"category"`
	Query    string     `json:"query"`
	Places   []placeDTO `json:"places"`
	Error    string     `json:"error,omitempty"`
}

type searchDTO struct {
	Location   string        `json:"location"`
	Categories []categoryDTO `json:"categories"`
}

type searchLogDTO struct {
	ID        int64  `json:"id"`
	Location  string `json:"location"`
	Category  string `json:"category"`
	Query     string `json:"query"`
	Results   int    `json:"results"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/places", h.listPlaces)
	s.mux.Get("/v1/route", h.route)
	s.mux.Get("/v1/searches", h.recentSearches)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON honours If-None-Match with a weak ETag.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); status == http.StatusOK && inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func toCategoryDTO(res domain.CategoryResult) categoryDTO {
	out := categoryDTO{Category: res.Category.String(), Query: res.Query, Places: make([]placeDTO, 0, len(res.Cards))}
	if res.Err != nil {
		out.Error = app.Unavailable
		return out
	}
	for i, c := range res.Cards {
		p := res.Places[i]
		out.Places = append(out.Places, placeDTO{
			Name:        c.Title,
			DisplayName: p.DisplayName,
			OSMType:     p.OSMType,
			OSMID:       p.OSMID,
			Blurb:       c.Blurb,
			Phone:       c.Phone,
			Website:     c.Website,
			ImageURL:    c.ImageURL,
			LocationURL: c.LocationURL,
			Price:       c.Price,
		})
	}
	return out
}

func (h *Handlers) listPlaces(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeProblem(w, http.StatusBadRequest, "Missing location", "location query parameter is required")
		return
	}

	cat := r.URL.Query().Get("category")
	if cat == "" {
		all := h.Q.SearchAll(r.Context(), location)
		resp := searchDTO{Location: location, Categories: make([]categoryDTO, 0, len(all))}
		for _, res := range all {
			resp.Categories = append(resp.Categories, toCategoryDTO(res))
		}
		writeJSON(w, r, http.StatusOK, resp)
		return
	}

	c, err := domain.ParseCategory(cat)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid category", "category must be one of hotel, car_rental, bike_rental")
		return
	}
	res := h.Q.SearchCategory(r.Context(), location, c)
	if errors.Is(res.Err, domain.ErrSearchUnavailable) {
		writeJSON(w, r, http.StatusBadGateway, toCategoryDTO(res))
		return
	}
	writeJSON(w, r, http.StatusOK, toCategoryDTO(res))
}

func (h *Handlers) route(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	plan, err := h.Q.PlanRoute(q.Get("origin"), q.Get("destination"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Missing route endpoint", "origin and destination are required")
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

func (h *Handlers) recentSearches(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	entries, err := h.Q.RecentSearches(r.Context(), limit)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "search log is disabled")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("list recent searches failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "search log unavailable")
		return
	}
	out := make([]searchLogDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, searchLogDTO(e))
	}
	writeJSON(w, r, http.StatusOK, out)
}
