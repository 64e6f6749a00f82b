// Package locator provides the one-shot position reading used to order the
// catalog by distance.
package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"placepicker.dev/internal/geo"
	"placepicker.dev/internal/models"
)

var (
	// ErrPositionUnavailable is returned when no position source is configured
	// or the source cannot produce a reading.
	ErrPositionUnavailable = errors.New("position unavailable")

	// ErrPermissionDenied is returned when the position source refuses the query.
	ErrPermissionDenied = errors.New("position permission denied")

	// ErrInvalidPosition is returned when a reading is outside the valid coordinate range.
	ErrInvalidPosition = errors.New("invalid position")
)

// Locator answers a single position query. Implementations validate their
// readings, so callers may pass the result to the distance sorter directly.
type Locator interface {
	CurrentPosition(ctx context.Context) (models.GeoPosition, error)
}

// Validate returns ErrInvalidPosition if pos is outside the coordinate range.
func Validate(pos models.GeoPosition) error {
	if !geo.IsValidLatLon(pos.Latitude, pos.Longitude) {
		return fmt.Errorf("%w: latitude %v, longitude %v", ErrInvalidPosition, pos.Latitude, pos.Longitude)
	}
	return nil
}

// Static always reports the same configured position.
type Static struct {
	Position models.GeoPosition
}

func NewStatic(lat, lng float64) *Static {
	return &Static{Position: models.GeoPosition{Latitude: lat, Longitude: lng}}
}

func (s *Static) CurrentPosition(ctx context.Context) (models.GeoPosition, error) {
	if err := ctx.Err(); err != nil {
		return models.GeoPosition{}, err
	}
	if err := Validate(s.Position); err != nil {
		return models.GeoPosition{}, err
	}
	return s.Position, nil
}

// Unavailable never produces a position.
type Unavailable struct{}

func (Unavailable) CurrentPosition(context.Context) (models.GeoPosition, error) {
	return models.GeoPosition{}, ErrPositionUnavailable
}

// HTTP reads the position from a JSON endpoint answering
// {"coords":{"latitude":..,"longitude":..}}.
type HTTP struct {
	URL    string
	Client *http.Client
}

func NewHTTP(url string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{URL: url, Client: client}
}

type positionResponse struct {
	Coords *models.GeoPosition `json:"coords"`
}

func (h *HTTP) CurrentPosition(ctx context.Context) (models.GeoPosition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return models.GeoPosition{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return models.GeoPosition{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.GeoPosition{}, ErrPermissionDenied
	case resp.StatusCode != http.StatusOK:
		return models.GeoPosition{}, fmt.Errorf("%w: %s returned status %d", ErrPositionUnavailable, h.URL, resp.StatusCode)
	}

	var body positionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.GeoPosition{}, fmt.Errorf("%w: failed to decode position: %v", ErrPositionUnavailable, err)
	}
	if body.Coords == nil {
		return models.GeoPosition{}, fmt.Errorf("%w: response has no coords", ErrPositionUnavailable)
	}
	if err := Validate(*body.Coords); err != nil {
		return models.GeoPosition{}, err
	}
	return *body.Coords, nil
}
