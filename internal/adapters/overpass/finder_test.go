package overpass

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart_travel/internal/domain"
)

func TestNearbyQuery_UsesCategoryTag(t *testing.T) {
	q := nearbyQuery(domain.BikeRental, 11.4, 76.7, 3000)
	assert.Contains(t, q, `node["amenity"="bicycle_rental"](around:3000,11.400000,76.700000);`)
	assert.Contains(t, q, `way["amenity"="bicycle_rental"]`)
}

func TestNearby_FiltersAndOrders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"version":0.6,"osm3s":{"timestamp_osm_base":"2024-01-01T00:00:00Z"},"elements":[
			{"type":"node","id":30,"lat":11.1,"lon":76.1,"tags":{"tourism":"hotel","name":"Zeta Inn","contact:phone":"+91 555"}},
			{"type":"node","id":10,"lat":11.2,"lon":76.2,"tags":{"tourism":"hotel","name":"Alpha Lodge","website":"https://alpha.example"}},
			{"type":"node","id":20,"lat":11.3,"lon":76.3,"tags":{"tourism":"hotel"}},
			{"type":"node","id":40,"lat":11.4,"lon":76.4,"tags":{"amenity":"cafe","name":"Not a hotel"}}
		]}`)
	}))
	defer ts.Close()

	f := New(ts.URL, 1000, 2*time.Second)
	got, err := f.Nearby(context.Background(), domain.Hotel, 11.4, 76.7, 6)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha Lodge", got[0].DisplayName)
	assert.Equal(t, "node", got[0].OSMType)
	assert.Equal(t, int64(10), got[0].OSMID)
	assert.Equal(t, "https://alpha.example", got[0].Website())
	assert.Equal(t, "+91 555", got[1].Phone())
}

func TestNearby_ProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer ts.Close()

	_, err := New(ts.URL, 1000, time.Second).Nearby(context.Background(), domain.Hotel, 0, 0, 6)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "overpass"))
}
