package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"testing"
	"time"

	"placepicker.dev/internal/client"
	"placepicker.dev/internal/locator"
	"placepicker.dev/internal/metrics"
	"placepicker.dev/internal/models"
)

type fakeFetcher struct {
	places []models.Place
	err    error
	delay  time.Duration
}

func (f *fakeFetcher) FetchPlaces(ctx context.Context) ([]models.Place, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.places, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPlaces() []models.Place {
	return []models.Place{
		{ID: "A", Lat: 0, Lng: 0},
		{ID: "B", Lat: 1, Lng: 1},
		{ID: "C", Lat: 0, Lng: 0.0001},
	}
}

func viewIDs(v View) []string {
	out := make([]string, len(v.Places))
	for i, rp := range v.Places {
		out[i] = rp.Place.ID
	}
	return out
}

func TestLoadSortsByDistance(t *testing.T) {
	c := New(&fakeFetcher{places: testPlaces()}, locator.NewStatic(0, 0), testLogger(), time.Second)

	if got := c.View().State; got != StateIdle {
		t.Fatalf("expected idle before load, got %v", got)
	}

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	v := c.View()
	if v.State != StateReady || !v.Sorted || v.Err != nil {
		t.Fatalf("unexpected view %+v", v)
	}
	if got := viewIDs(v); !slices.Equal(got, []string{"A", "C", "B"}) {
		t.Errorf("expected [A C B], got %v", got)
	}
	if v.Places[1].DistanceMeters <= 0 {
		t.Errorf("expected a positive distance for C, got %v", v.Places[1].DistanceMeters)
	}
}

func TestLoadFallsBackWhenPositionUnavailable(t *testing.T) {
	tests := []struct {
		name string
		loc  locator.Locator
	}{
		{"no locator", nil},
		{"unavailable", locator.Unavailable{}},
		{"invalid reading", locator.NewStatic(123, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := metrics.CounterValue(metrics.LocatorFallbackTotal)
			c := New(&fakeFetcher{places: testPlaces()}, tt.loc, testLogger(), time.Second)

			if err := c.Load(context.Background()); err != nil {
				t.Fatalf("a position failure must not fail the load: %v", err)
			}

			v := c.View()
			if v.Sorted || v.Err != nil {
				t.Errorf("unexpected view %+v", v)
			}
			if got := viewIDs(v); !slices.Equal(got, []string{"A", "B", "C"}) {
				t.Errorf("expected backend order, got %v", got)
			}
			if after := metrics.CounterValue(metrics.LocatorFallbackTotal); after != before+1 {
				t.Errorf("expected fallback counter to grow by one, got %v -> %v", before, after)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
		timeout time.Duration
		wantMsg string
	}{
		{
			name:    "non-2xx",
			fetcher: &fakeFetcher{err: &client.StatusError{Method: http.MethodGet, URL: "/places", StatusCode: 500}},
			wantMsg: msgFetchFailed,
		},
		{
			name:    "network failure",
			fetcher: &fakeFetcher{err: errors.New("connection refused")},
			wantMsg: msgFetchFallback,
		},
		{
			name:    "timeout",
			fetcher: &fakeFetcher{delay: time.Second},
			timeout: 10 * time.Millisecond,
			wantMsg: msgFetchFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.fetcher, locator.NewStatic(0, 0), testLogger(), tt.timeout)

			err := c.Load(context.Background())

			var loadErr *models.LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected LoadError, got %v", err)
			}
			if loadErr.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, loadErr.Message)
			}

			v := c.View()
			if v.State != StateReady || v.Err == nil || len(v.Places) != 0 {
				t.Errorf("unexpected view after failure %+v", v)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	c := New(&fakeFetcher{places: testPlaces()}, nil, testLogger(), 0)
	if _, ok := c.Lookup("A"); ok {
		t.Fatal("lookup must fail before load")
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	p, ok := c.Lookup("B")
	if !ok || p.ID != "B" {
		t.Errorf("expected B, got %+v, %v", p, ok)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("expected lookup of unknown id to fail")
	}
}
