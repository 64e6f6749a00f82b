package server

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"placepicker.dev/internal/config"
	"placepicker.dev/internal/models"
)

const testCatalog = `[
  {"id": "p1", "name": "Forest Waterfall", "image": {"src": "forest-waterfall.jpg", "alt": "A tranquil forest"}, "description": "A tranquil forest.", "lat": 44.5588, "lon": -80.344},
  {"id": "p2", "name": "Sahara Desert Dunes", "image": "desert-dunes.jpg", "description": "Golden dunes.", "lat": 25.0, "lng": 0.0}
]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApplication serves testCatalog from a temp data dir and stores user
// places in a JSON file next to it.
func newTestApplication(t *testing.T) *Application {
	t.Helper()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	imagesDir := filepath.Join(dir, "images")
	for _, d := range []string{dataDir, imagesDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dataDir, "places.json"), []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imagesDir, "forest-waterfall.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Port:           4000,
		Env:            "testing",
		DataDir:        dataDir,
		ImagesDir:      imagesDir,
		BaseURL:        "http://localhost:4000",
		RequestTimeout: time.Second,
		LocatorMode:    config.LocatorNone,
	}

	repo := NewFileUserPlaces(filepath.Join(dataDir, "user-places.json"))
	return New(cfg, testLogger(), repo, "test-version")
}

func serve(t *testing.T, app *Application, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	app.Routes(ctx).ServeHTTP(rr, req)
	return rr
}

// failingRepository fails loads with loadErr and saves with saveErr; a nil
// error means the call succeeds with an empty list.
type failingRepository struct {
	loadErr error
	saveErr error
}

func (f failingRepository) Name() string { return "failing" }

func (f failingRepository) LoadUserPlaces(ctx context.Context) ([]models.Place, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return []models.Place{}, nil
}

func (f failingRepository) SaveUserPlaces(ctx context.Context, places []models.Place) error {
	return f.saveErr
}
