package overpass

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/serjvanilla/go-overpass"

	"smart_travel/internal/adapters/observability"
	"smart_travel/internal/domain"
)

// Finder looks up tagged venues around a point with the Overpass API.
type Finder struct {
	client *overpass.Client
	radius int
}

func New(endpoint string, radiusM int, timeout time.Duration) *Finder {
	if radiusM <= 0 {
		radiusM = 5000
	}
	client := overpass.NewWithSettings(endpoint, 2, &http.Client{Timeout: timeout})
	return &Finder{client: &client, radius: radiusM}
}

func (f *Finder) Nearby(ctx context.Context, c domain.Category, lat, lon float64, limit int) ([]domain.PlaceRecord, error) {
	res, err := f.run(ctx, nearbyQuery(c, lat, lon, f.radius))
	if err != nil {
		return nil, err
	}
	return toPlaces(res, c, limit), nil
}

type outcome struct {
	res overpass.Result
	err error
}

// run executes q; the client has no context support so cancellation only
// stops the wait, the request itself ends at the HTTP client timeout.
func (f *Finder) run(ctx context.Context, q string) (overpass.Result, error) {
	ch := make(chan outcome, 1)
	start := time.Now()
	go func() {
		r, err := f.client.Query(q)
		ch <- outcome{r, err}
	}()
	select {
	case <-ctx.Done():
		observability.ObserveExternal("overpass", "interpreter", 0, time.Since(start))
		return overpass.Result{}, ctx.Err()
	case o := <-ch:
		if o.err != nil {
			observability.ObserveExternal("overpass", "interpreter", 0, time.Since(start))
			return overpass.Result{}, fmt.Errorf("overpass query failed: %w", o.err)
		}
		observability.ObserveExternal("overpass", "interpreter", http.StatusOK, time.Since(start))
		return o.res, nil
	}
}

func nearbyQuery(c domain.Category, lat, lon float64, radius int) string {
	k, v := c.OSMTag()
	around := fmt.Sprintf("(around:%d,%f,%f)", radius, lat, lon)
	return fmt.Sprintf(`
		[out:json];
		(
			node["%s"="%s"]%s;
			way["%s"="%s"]%s;
		);
		out body;
		>;
		out skel qt;
	`, k, v, around, k, v, around)
}

// toPlaces keeps only named elements carrying the category tag, nodes first,
// each group ordered by id so results are stable.
func toPlaces(res overpass.Result, c domain.Category, limit int) []domain.PlaceRecord {
	k, v := c.OSMTag()
	var nodes, ways []domain.PlaceRecord

	for _, n := range res.Nodes {
		if n.Tags[k] != v {
			continue
		}
		if name := displayName(n.Tags); name != "" {
			nodes = append(nodes, record(name, string(overpass.ElementTypeNode), n.ID, n.Tags, n.Lat, n.Lon))
		}
	}
	for _, w := range res.Ways {
		if w.Tags[k] != v {
			continue
		}
		name := displayName(w.Tags)
		if name == "" {
			continue
		}
		var lat, lon float64
		if count := len(w.Nodes); count > 0 {
			for _, n := range w.Nodes {
				lat += n.Lat
				lon += n.Lon
			}
			lat /= float64(count)
			lon /= float64(count)
		}
		ways = append(ways, record(name, string(overpass.ElementTypeWay), w.ID, w.Tags, lat, lon))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].OSMID < nodes[j].OSMID })
	sort.Slice(ways, func(i, j int) bool { return ways[i].OSMID < ways[j].OSMID })

	out := append(nodes, ways...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func displayName(tags map[string]string) string {
	for _, k := range []string{"name", "name:en"} {
		if n := strings.TrimSpace(tags[k]); n != "" {
			return n
		}
	}
	return ""
}

func record(name, typ string, id int64, tags map[string]string, lat, lon float64) domain.PlaceRecord {
	extra := make(map[string]string, len(tags))
	for k, v := range tags {
		extra[k] = v
	}
	// overpass uses contact:* keys as often as the bare ones
	for _, k := range []string{"phone", "website"} {
		if extra[k] == "" && extra["contact:"+k] != "" {
			extra[k] = extra["contact:"+k]
		}
	}
	return domain.PlaceRecord{DisplayName: name, OSMType: typ, OSMID: id, ExtraTags: extra, Lat: lat, Lon: lon}
}
