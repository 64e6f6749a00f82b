package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"

	"placepicker.dev/internal/models"
	"placepicker.dev/internal/report"
	"placepicker.dev/internal/utils"
)

const (
	placesPath     = "/places"
	userPlacesPath = "/user-places"

	// maxErrorBody caps how much of a non-2xx body is read for its message.
	maxErrorBody = 64 << 10
)

// StatusError is returned when the backend answers with a non-2xx status.
// Message holds the backend's "message" field when one was sent; it is meant
// for logs, not for the user.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Client talks to the places backend. It implements the catalog fetcher and
// the selection persister.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// New creates a Client for the backend at baseURL. A nil httpClient falls back
// to http.DefaultClient.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    httpClient,
		Logger:  logger,
	}
}

// FetchPlaces returns the full catalog of available places in backend order.
func (c *Client) FetchPlaces(ctx context.Context) ([]models.Place, error) {
	return c.fetchPlaces(ctx, placesPath)
}

// FetchUserPlaces returns the persisted selection list.
func (c *Client) FetchUserPlaces(ctx context.Context) ([]models.Place, error) {
	return c.fetchPlaces(ctx, userPlacesPath)
}

// UpdateUserPlaces replaces the persisted selection with places and returns
// the backend's confirmation message.
func (c *Client) UpdateUserPlaces(ctx context.Context, places []models.Place) (string, error) {
	url := c.BaseURL + userPlacesPath

	body, err := json.Marshal(models.PlacesEnvelope{Places: models.ClonePlaces(places)})
	if err != nil {
		return "", fmt.Errorf("failed to encode user places: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out models.MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("failed to decode response from %s: %w", url, err)
		c.report(err, url)
		return "", err
	}

	c.Logger.Info("user places updated", "count", len(places), "message", out.Message)
	return out.Message, nil
}

func (c *Client) fetchPlaces(ctx context.Context, path string) ([]models.Place, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.PlacesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		err = fmt.Errorf("failed to decode places from %s: %w", url, err)
		c.report(err, url)
		return nil, err
	}

	return models.ClonePlaces(out.Places), nil
}

// do sends req and turns transport failures and non-2xx answers into errors.
// On success the caller owns the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to send %s %s: %w", req.Method, url, err)
		c.report(err, url)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()

		statusErr := &StatusError{
			Method:     req.Method,
			URL:        url,
			StatusCode: resp.StatusCode,
		}
		var msg models.MessageResponse
		if json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&msg) == nil {
			statusErr.Message = msg.Message
		}

		report.ReportErrorWithSentryOptions(statusErr, report.SentryReportOptions{
			Tags: utils.MakeMap("url", url),
			ExtraContext: map[string]interface{}{
				"status_code": resp.StatusCode,
				"method":      req.Method,
			},
			Level: sentry.LevelError,
		})
		return nil, statusErr
	}

	return resp, nil
}

func (c *Client) report(err error, url string) {
	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Tags:  utils.MakeMap("url", url),
		Level: sentry.LevelError,
	})
}
