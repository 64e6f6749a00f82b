//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"os"
)

// backend is one running places backend to check, optionally with the Redis
// instance it stores user places in.
type backend struct {
	Name     string `json:"name"`
	BaseURL  string `json:"base_url"`
	RedisURL string `json:"redis_url"`
	RedisKey string `json:"redis_key"`
}

// loadIntegrationBackends reads a JSON array of backends from path.
func loadIntegrationBackends(path string) ([]backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var backends []backend
	if err := json.Unmarshal(data, &backends); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return backends, nil
}
