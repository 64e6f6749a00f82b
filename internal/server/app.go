// Package server is the reference backend for the place picker: it serves
// the catalog, stores the user's selection and hosts the place images.
package server

import (
	"context"
	"log/slog"
	"path/filepath"

	"placepicker.dev/internal/config"
	"placepicker.dev/internal/utils"
)

// Application holds the dependencies of the HTTP handlers.
type Application struct {
	Config     *config.Config
	Logger     *slog.Logger
	Catalog    CatalogSource
	UserPlaces UserPlacesRepository
	Version    string
}

// New wires an Application around a file catalog in cfg.DataDir and the given
// user places repository.
func New(cfg *config.Config, logger *slog.Logger, userPlaces UserPlacesRepository, version string) *Application {
	return &Application{
		Config:     cfg,
		Logger:     logger,
		Catalog:    &FileCatalog{Path: filepath.Join(cfg.DataDir, "places.json")},
		UserPlaces: userPlaces,
		Version:    version,
	}
}

// OpenUserPlaces picks Redis when cfg.RedisURL is set and the JSON file in
// cfg.DataDir otherwise. The returned func releases the connection.
func OpenUserPlaces(ctx context.Context, cfg *config.Config, logger *slog.Logger) (UserPlacesRepository, func() error, error) {
	if cfg.RedisURL != "" {
		store, err := NewRedisUserPlaces(ctx, cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storing user places in redis", "key", cfg.RedisKey)
		return store, store.Close, nil
	}

	if err := utils.EnsureDirectory(cfg.DataDir, logger); err != nil {
		return nil, nil, err
	}
	path := filepath.Join(cfg.DataDir, "user-places.json")
	logger.Info("storing user places on disk", "path", path)
	return NewFileUserPlaces(path), func() error { return nil }, nil
}
