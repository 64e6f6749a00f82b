package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"placepicker.dev/internal/client"
	"placepicker.dev/internal/geo"
	"placepicker.dev/internal/locator"
	"placepicker.dev/internal/metrics"
	"placepicker.dev/internal/models"
)

const (
	msgFetchFailed   = "Failed to fetch places"
	msgFetchFallback = "Could not fetch places!"
)

// Fetcher returns the full catalog of places.
type Fetcher interface {
	FetchPlaces(ctx context.Context) ([]models.Place, error)
}

// State is the lifecycle of a catalog load.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// View is a snapshot of the available places.
// When Sorted is false the places are in backend order and carry no distance.
type View struct {
	State    State
	Places   []geo.RankedPlace
	Sorted   bool
	Position models.GeoPosition
	Err      *models.LoadError
}

// Catalog loads the available places and orders them by distance from the
// position reported by its locator.
type Catalog struct {
	Fetcher Fetcher
	Locator locator.Locator
	Logger  *slog.Logger
	Timeout time.Duration

	mu       sync.RWMutex
	state    State
	places   []geo.RankedPlace
	sorted   bool
	position models.GeoPosition
	err      *models.LoadError
}

// New creates a Catalog. A nil loc behaves as locator.Unavailable; a
// non-positive timeout disables the per-step deadline.
func New(fetcher Fetcher, loc locator.Locator, logger *slog.Logger, timeout time.Duration) *Catalog {
	if loc == nil {
		loc = locator.Unavailable{}
	}
	return &Catalog{
		Fetcher: fetcher,
		Locator: loc,
		Logger:  logger,
		Timeout: timeout,
	}
}

// Load fetches the catalog and then reads the position. The two steps fail
// independently: a failed fetch is a LoadError, while a failed position read
// keeps the catalog in backend order.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLoading
	c.err = nil
	c.mu.Unlock()

	places, err := c.fetch(ctx)
	if err != nil {
		loadErr := newLoadError(err)
		metrics.CatalogLoadTotal.WithLabelValues("places", metrics.ResultFailure).Inc()
		c.Logger.Error("failed to fetch places", "error", err)
		c.finish(nil, false, models.GeoPosition{}, loadErr)
		return loadErr
	}
	metrics.CatalogLoadTotal.WithLabelValues("places", metrics.ResultSuccess).Inc()

	pos, err := c.locate(ctx)
	if err != nil {
		metrics.LocatorFallbackTotal.Inc()
		c.Logger.Warn("position unavailable, keeping backend order", "error", err)
		c.finish(unranked(places), false, models.GeoPosition{}, nil)
		return nil
	}

	c.finish(geo.RankByDistance(places, pos), true, pos, nil)
	c.Logger.Info("places sorted by distance", "count", len(places), "latitude", pos.Latitude, "longitude", pos.Longitude)
	return nil
}

// View returns a snapshot of the current state.
func (c *Catalog) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View{
		State:    c.state,
		Places:   append([]geo.RankedPlace(nil), c.places...),
		Sorted:   c.sorted,
		Position: c.position,
		Err:      c.err,
	}
}

// Lookup returns the catalog place with the given id.
func (c *Catalog) Lookup(id string) (models.Place, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, rp := range c.places {
		if rp.Place.ID == id {
			return rp.Place, true
		}
	}
	return models.Place{}, false
}

func (c *Catalog) fetch(ctx context.Context) ([]models.Place, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.Fetcher.FetchPlaces(ctx)
}

func (c *Catalog) locate(ctx context.Context) (models.GeoPosition, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.Locator.CurrentPosition(ctx)
}

func (c *Catalog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

func (c *Catalog) finish(places []geo.RankedPlace, sorted bool, pos models.GeoPosition, err *models.LoadError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateReady
	c.places = places
	c.sorted = sorted
	c.position = pos
	c.err = err
}

func unranked(places []models.Place) []geo.RankedPlace {
	out := make([]geo.RankedPlace, len(places))
	for i, p := range places {
		out[i] = geo.RankedPlace{Place: p}
	}
	return out
}

func newLoadError(err error) *models.LoadError {
	msg := msgFetchFallback
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		msg = msgFetchFailed
	}
	return &models.LoadError{Source: "places", Message: msg, Err: err}
}
