package config

import (
	"fmt"
	"net/url"
	"time"

	"placepicker.dev/internal/geo"
)

// Locator modes.
const (
	LocatorNone   = "none"
	LocatorStatic = "static"
	LocatorHTTP   = "http"
)

// Config holds all the configuration settings for the backend and the shell.
type Config struct {
	Port           int           `mapstructure:"port"`
	Env            string        `mapstructure:"env"`
	DataDir        string        `mapstructure:"data_dir"`
	ImagesDir      string        `mapstructure:"images_dir"`
	RedisURL       string        `mapstructure:"redis_url"`
	RedisKey       string        `mapstructure:"redis_key"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LocatorMode    string        `mapstructure:"locator"`
	Latitude       float64       `mapstructure:"latitude"`
	Longitude      float64       `mapstructure:"longitude"`
	LocatorURL     string        `mapstructure:"locator_url"`
}

// Validate reports the first setting that cannot be used.
func (cfg *Config) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}

	switch cfg.Env {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid env %q, must be development, staging or production", cfg.Env)
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", cfg.BaseURL)
	}

	switch cfg.LocatorMode {
	case LocatorNone:
	case LocatorStatic:
		if !geo.IsValidLatLon(cfg.Latitude, cfg.Longitude) {
			return fmt.Errorf("invalid static position %v,%v", cfg.Latitude, cfg.Longitude)
		}
	case LocatorHTTP:
		if cfg.LocatorURL == "" {
			return fmt.Errorf("locator_url is required when locator is %q", LocatorHTTP)
		}
	default:
		return fmt.Errorf("invalid locator %q, must be none, static or http", cfg.LocatorMode)
	}

	if cfg.RedisURL != "" && cfg.RedisKey == "" {
		return fmt.Errorf("redis_key is required when redis_url is set")
	}

	return nil
}

// Addr is the listen address for the backend.
func (cfg *Config) Addr() string {
	return fmt.Sprintf(":%d", cfg.Port)
}
