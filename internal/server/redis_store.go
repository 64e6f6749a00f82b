package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"placepicker.dev/internal/models"
)

// RedisUserPlaces keeps the selection as one JSON value under Key.
type RedisUserPlaces struct {
	Client redis.UniversalClient
	Key    string
}

// NewRedisUserPlaces connects to redisURL and checks the connection.
func NewRedisUserPlaces(ctx context.Context, redisURL, key string) (*RedisUserPlaces, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisUserPlaces{Client: client, Key: key}, nil
}

func (r *RedisUserPlaces) Name() string { return "redis" }

func (r *RedisUserPlaces) LoadUserPlaces(ctx context.Context) ([]models.Place, error) {
	data, err := r.Client.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Place{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.Key, err)
	}

	var places []models.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", r.Key, err)
	}
	return models.ClonePlaces(places), nil
}

func (r *RedisUserPlaces) SaveUserPlaces(ctx context.Context, places []models.Place) error {
	data, err := json.Marshal(models.ClonePlaces(places))
	if err != nil {
		return fmt.Errorf("failed to encode user places: %w", err)
	}
	if err := r.Client.Set(ctx, r.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Key, err)
	}
	return nil
}

func (r *RedisUserPlaces) Close() error {
	return r.Client.Close()
}
