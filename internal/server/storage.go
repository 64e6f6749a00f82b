package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"placepicker.dev/internal/models"
)

// CatalogSource yields the places a user can choose from.
type CatalogSource interface {
	LoadPlaces(ctx context.Context) ([]models.Place, error)
}

// UserPlacesRepository stores the user's selection as a whole list.
type UserPlacesRepository interface {
	LoadUserPlaces(ctx context.Context) ([]models.Place, error)
	SaveUserPlaces(ctx context.Context, places []models.Place) error
	Name() string
}

// FileCatalog reads the catalog from a JSON array on disk on every call.
type FileCatalog struct {
	Path string
}

func (c *FileCatalog) LoadPlaces(ctx context.Context) ([]models.Place, error) {
	places, err := readPlacesFile(c.Path)
	if err != nil {
		return nil, err
	}
	if places == nil {
		return nil, fmt.Errorf("catalog %s: %w", c.Path, fs.ErrNotExist)
	}
	return places, nil
}

// FileUserPlaces keeps the selection in a JSON array on disk. A missing file
// is an empty selection.
type FileUserPlaces struct {
	Path string

	mu sync.Mutex
}

func NewFileUserPlaces(path string) *FileUserPlaces {
	return &FileUserPlaces{Path: path}
}

func (f *FileUserPlaces) Name() string { return "file" }

func (f *FileUserPlaces) LoadUserPlaces(ctx context.Context) ([]models.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	places, err := readPlacesFile(f.Path)
	if err != nil {
		return nil, err
	}
	return models.ClonePlaces(places), nil
}

func (f *FileUserPlaces) SaveUserPlaces(ctx context.Context, places []models.Place) error {
	data, err := json.MarshalIndent(models.ClonePlaces(places), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user places: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return writeFileAtomic(f.Path, data)
}

// readPlacesFile returns nil, nil when the file does not exist.
func readPlacesFile(path string) ([]models.Place, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var places []models.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return places, nil
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
