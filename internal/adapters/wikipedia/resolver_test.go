package wikipedia_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"smart_travel/internal/adapters/wikipedia"
	"smart_travel/internal/domain"
)

func TestResolveImage_Thumbnail(t *testing.T) {
	var rawPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		fmt.Fprint(w, `{"title":"Ooty","thumbnail":{"source":"https://upload.example/ooty.jpg","width":320}}`)
	}))
	defer ts.Close()

	got := wikipedia.New(ts.URL, 100, time.Second).ResolveImage(context.Background(), "Ooty Lake Hotel")
	assert.Equal(t, "https://upload.example/ooty.jpg", got)
	assert.Equal(t, "/page/summary/Ooty%20Lake%20Hotel", rawPath)
}

func TestResolveImage_Placeholder(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
		"rate limited": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"no thumbnail":        func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"title":"X"}`) },
		"thumbnail no source": func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"thumbnail":{}}`) },
		"source not string":   func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"thumbnail":{"source":7}}`) },
		"thumbnail null":      func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"thumbnail":null}`) },
		"not json":            func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `oops`) },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(h)
			defer ts.Close()
			got := wikipedia.New(ts.URL, 100, time.Second).ResolveImage(context.Background(), "Some Place")
			assert.Equal(t, domain.PlaceholderImageURL, got)
		})
	}
}

func TestResolveImage_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	got := wikipedia.New(url, 100, time.Second).ResolveImage(context.Background(), "Ooty")
	assert.Equal(t, domain.PlaceholderImageURL, got)
}

func TestResolveImage_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"thumbnail":{"source":"late"}}`)
	}))
	defer ts.Close()

	got := wikipedia.New(ts.URL, 100, 50*time.Millisecond).ResolveImage(context.Background(), "Slow")
	assert.Equal(t, domain.PlaceholderImageURL, got)
}

func TestResolveImage_EmptyName(t *testing.T) {
	assert.Equal(t, domain.PlaceholderImageURL,
		wikipedia.New("http://127.0.0.1:1", 100, time.Second).ResolveImage(context.Background(), "  "))
}

func TestLookup_DefinitiveMissVersusTransient(t *testing.T) {
	cases := []struct {
		name       string
		h          http.HandlerFunc
		definitive bool
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }, true},
		{"no thumbnail", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"title":"X"}`) }, true},
		{"unavailable", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }, false},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }, false},
		{"not json", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `oops`) }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.h)
			defer ts.Close()
			_, err := wikipedia.New(ts.URL, 100, time.Second).Lookup(context.Background(), "Some Place")
			assert.Error(t, err)
			assert.Equal(t, tc.definitive, errors.Is(err, domain.ErrNoImage))
		})
	}
}
