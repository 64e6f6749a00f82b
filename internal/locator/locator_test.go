package locator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatic(t *testing.T) {
	pos, err := NewStatic(52.52, 13.405).CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Latitude != 52.52 || pos.Longitude != 13.405 {
		t.Errorf("unexpected position %+v", pos)
	}

	_, err = NewStatic(91, 0).CurrentPosition(context.Background())
	if !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStatic(0, 0).CurrentPosition(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.CurrentPosition(context.Background())
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Errorf("expected ErrPositionUnavailable, got %v", err)
	}
}

func TestHTTP(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantLat float64
	}{
		{"valid reading", http.StatusOK, `{"coords":{"latitude":48.8566,"longitude":2.3522}}`, nil, 48.8566},
		{"permission denied", http.StatusForbidden, `{}`, ErrPermissionDenied, 0},
		{"server error", http.StatusInternalServerError, `{}`, ErrPositionUnavailable, 0},
		{"missing coords", http.StatusOK, `{}`, ErrPositionUnavailable, 0},
		{"invalid JSON", http.StatusOK, `{ nope`, ErrPositionUnavailable, 0},
		{"out of range", http.StatusOK, `{"coords":{"latitude":12,"longitude":181}}`, ErrInvalidPosition, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				// #nosec G104
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			pos, err := NewHTTP(ts.URL, nil).CurrentPosition(context.Background())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pos.Latitude != tt.wantLat {
				t.Errorf("expected latitude %v, got %v", tt.wantLat, pos.Latitude)
			}
		})
	}
}
