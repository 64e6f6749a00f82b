package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"placepicker.dev/internal/client"
	"placepicker.dev/internal/models"
	"placepicker.dev/internal/selection"
)

func TestClientAgainstBackend(t *testing.T) {
	app := newTestApplication(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(app.Routes(ctx))
	defer srv.Close()

	c := client.New(srv.URL, client.NewPooledClient(2*time.Second), testLogger())

	catalog, err := c.FetchPlaces(ctx)
	if err != nil {
		t.Fatalf("FetchPlaces failed: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 places, got %d", len(catalog))
	}

	store := selection.NewStore(c, testLogger(), 2*time.Second)
	if err := store.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	for _, p := range catalog {
		if err := store.Select(ctx, p); err != nil {
			t.Fatalf("Select %s failed: %v", p.ID, err)
		}
	}
	if err := store.Remove(ctx, "p1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	remote, err := c.FetchUserPlaces(ctx)
	if err != nil {
		t.Fatalf("FetchUserPlaces failed: %v", err)
	}
	if got := placeIDs(remote); !slices.Equal(got, []string{"p2"}) {
		t.Errorf("expected backend to hold [p2], got %v", got)
	}
	if !remote[0].Image.IsBare() {
		t.Errorf("expected bare image to survive the round trip, got %+v", remote[0].Image)
	}

	// A fresh session sees the persisted selection.
	next := selection.NewStore(c, testLogger(), 2*time.Second)
	if err := next.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}
	if got := placeIDs(next.Places()); !slices.Equal(got, []string{"p2"}) {
		t.Errorf("expected [p2] after reload, got %v", got)
	}
}

func TestStoreRollsBackOnBackendFailure(t *testing.T) {
	app := newTestApplication(t)
	app.UserPlaces = failingRepository{saveErr: errors.New("disk full")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(app.Routes(ctx))
	defer srv.Close()

	c := client.New(srv.URL, client.NewPooledClient(2*time.Second), testLogger())
	store := selection.NewStore(c, testLogger(), 2*time.Second)
	if err := store.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	err := store.Select(ctx, models.Place{ID: "p1"})
	var updateErr *models.UpdateError
	if !errors.As(err, &updateErr) {
		t.Fatalf("expected *models.UpdateError, got %v", err)
	}
	if updateErr.Message != "Failed to update user data." {
		t.Errorf("unexpected message %q", updateErr.Message)
	}
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 500 {
		t.Errorf("expected the 500 to be kept as cause, got %v", err)
	}
	if got := store.Places(); len(got) != 0 {
		t.Errorf("expected rollback to [], got %v", placeIDs(got))
	}
}
