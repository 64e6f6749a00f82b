//go:build integration

package integration

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"placepicker.dev/internal/client"
	"placepicker.dev/internal/models"
	"placepicker.dev/internal/selection"
	"placepicker.dev/internal/server"
)

// TestBackendContract selects and removes a catalog place on every configured
// backend through the selection store, then restores the original selection.
func TestBackendContract(t *testing.T) {
	if len(integrationBackends) == 0 {
		t.Skip("No backends found in config")
	}

	for _, b := range integrationBackends {
		t.Run(b.Name, func(t *testing.T) {
			t.Parallel()

			if b.BaseURL == "" {
				t.Skipf("Skipping %s: missing base_url", b.Name)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			c := client.New(b.BaseURL, client.NewPooledClient(10*time.Second), testLogger())

			catalog, err := c.FetchPlaces(ctx)
			if err != nil {
				t.Fatalf("FetchPlaces failed: %v", err)
			}
			if len(catalog) == 0 {
				t.Skipf("Skipping %s: empty catalog", b.Name)
			}

			original, err := c.FetchUserPlaces(ctx)
			if err != nil {
				t.Fatalf("FetchUserPlaces failed: %v", err)
			}
			t.Cleanup(func() {
				if _, err := c.UpdateUserPlaces(context.Background(), original); err != nil {
					t.Errorf("failed to restore user places: %v", err)
				}
			})

			store := selection.NewStore(c, testLogger(), 10*time.Second)
			if err := store.LoadInitial(ctx); err != nil {
				t.Fatalf("LoadInitial failed: %v", err)
			}

			target := catalog[0]
			if err := store.Remove(ctx, target.ID); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if err := store.Select(ctx, target); err != nil {
				t.Fatalf("Select failed: %v", err)
			}

			remote, err := c.FetchUserPlaces(ctx)
			if err != nil {
				t.Fatalf("FetchUserPlaces failed: %v", err)
			}
			if !models.SameIDs(remote, store.Places()) {
				t.Errorf("remote and local selections differ")
			}
			if len(remote) == 0 || remote[0].ID != target.ID {
				t.Errorf("expected %s first in the remote selection", target.ID)
			}

			var statusErr *client.StatusError
			if _, err := c.UpdateUserPlaces(ctx, []models.Place{target, target}); !errors.As(err, &statusErr) || statusErr.StatusCode != 400 {
				t.Errorf("expected duplicate ids to be rejected with 400, got %v", err)
			}
		})
	}
}

// TestRedisStorage writes through a backend and reads the key back from Redis.
func TestRedisStorage(t *testing.T) {
	for _, b := range integrationBackends {
		t.Run(b.Name, func(t *testing.T) {
			if b.RedisURL == "" || b.BaseURL == "" {
				t.Skipf("Skipping %s: missing redis_url or base_url", b.Name)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			key := b.RedisKey
			if key == "" {
				key = "placepicker:user-places"
			}
			repo, err := server.NewRedisUserPlaces(ctx, b.RedisURL, key)
			if err != nil {
				t.Fatalf("NewRedisUserPlaces failed: %v", err)
			}
			defer repo.Close()

			c := client.New(b.BaseURL, client.NewPooledClient(10*time.Second), testLogger())
			original, err := c.FetchUserPlaces(ctx)
			if err != nil {
				t.Fatalf("FetchUserPlaces failed: %v", err)
			}
			defer c.UpdateUserPlaces(context.Background(), original)

			want := slices.Clone(original)
			slices.Reverse(want)
			if _, err := c.UpdateUserPlaces(ctx, want); err != nil {
				t.Fatalf("UpdateUserPlaces failed: %v", err)
			}

			stored, err := repo.LoadUserPlaces(ctx)
			if err != nil {
				t.Fatalf("LoadUserPlaces failed: %v", err)
			}
			if !models.SameIDs(stored, want) {
				t.Errorf("redis does not hold the list written through the backend")
			}
		})
	}
}
