package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "smart_travel/internal/adapters/redis"
	"smart_travel/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_RoundTripAndTTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	in := []domain.EnrichedPlace{{
		PlaceRecord: domain.PlaceRecord{DisplayName: "Savoy, Ooty", OSMType: "way", OSMID: 42, ExtraTags: map[string]string{"phone": "1"}},
		ImageURL:    domain.PlaceholderImageURL,
	}}
	require.NoError(t, c.Set(ctx, "places:hotel:ooty", in, 60))
	assert.True(t, mr.Exists("travel:places:hotel:ooty"))

	var out []domain.EnrichedPlace
	ok, err := c.Get(ctx, "places:hotel:ooty", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	mr.FastForward(61 * time.Second)
	ok, err = c.Get(ctx, "places:hotel:ooty", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_MissAndDel(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	var s string
	ok, err := c.Get(ctx, "image:nothing", &s)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "image:x", "https://img", 60))
	require.NoError(t, c.Del(ctx, "image:x"))
	ok, _ = c.Get(ctx, "image:x", &s)
	assert.False(t, ok)
}

func TestCache_ShapeMismatchIsMiss(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "a string", 60))

	var n []int
	ok, err := c.Get(ctx, "k", &n)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ServerDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	var s string
	_, err := c.Get(context.Background(), "k", &s)
	assert.Error(t, err)
}
