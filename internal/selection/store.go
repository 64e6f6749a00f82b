// Package selection keeps the user's list of places to visit and synchronizes
// it with the backend using optimistic updates.
//
// Every mutation is applied to the in-memory list first and then persisted as
// a whole-list replacement. Persistence requests of one Store are sent one at a
// time in the order the mutations were made. When a request fails, the
// mutation is reverted and an UpdateError is recorded. A mutation that an
// earlier request already carried to the backend is never reverted.
package selection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"placepicker.dev/internal/client"
	"placepicker.dev/internal/metrics"
	"placepicker.dev/internal/models"
	"placepicker.dev/internal/report"
	"placepicker.dev/internal/utils"
)

const (
	opSelect = "select"
	opRemove = "remove"

	msgLoadFailed     = "Failed to fetch user places"
	msgLoadFallback   = "Could not fetch user places!"
	msgUpdateFailed   = "Failed to update user data."
	msgSelectFallback = "Failed to update places."
	msgRemoveFallback = "Failed to delete place."
)

var (
	// ErrAlreadyLoaded is returned by LoadInitial after the first call.
	ErrAlreadyLoaded = errors.New("selection already loaded")

	// ErrNotReady is returned by Select and Remove unless the initial load
	// succeeded. Writing before that would replace the remote list with a
	// partial one.
	ErrNotReady = errors.New("selection is not loaded")
)

// Persister reads and replaces the remote copy of the selection.
type Persister interface {
	FetchUserPlaces(ctx context.Context) ([]models.Place, error)
	UpdateUserPlaces(ctx context.Context, places []models.Place) (string, error)
}

// State is the lifecycle of a Store.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// View is a snapshot of a Store.
type View struct {
	State     State
	Places    []models.Place
	Syncing   bool
	LoadErr   *models.LoadError
	UpdateErr *models.UpdateError
}

// Store owns the selection list. It is safe for concurrent use.
type Store struct {
	persister Persister
	logger    *slog.Logger
	timeout   time.Duration

	mu        sync.Mutex
	state     State
	places    []models.Place
	inFlight  int
	loadErr   *models.LoadError
	updateErr *models.UpdateError

	// tail is closed when the most recently queued persistence has finished.
	tail chan struct{}

	// gen numbers mutations in issue order. savedGen is the newest mutation
	// the backend is known to hold.
	gen      uint64
	savedGen uint64

	// sending is closed when the request in flight resolves; it carries
	// every mutation up to sendingGen.
	sending    chan struct{}
	sendingGen uint64
}

// NewStore creates an empty, uninitialized Store. A non-positive timeout
// disables the per-request deadline.
func NewStore(persister Persister, logger *slog.Logger, timeout time.Duration) *Store {
	done := make(chan struct{})
	close(done)
	return &Store{
		persister: persister,
		logger:    logger,
		timeout:   timeout,
		places:    []models.Place{},
		tail:      done,
	}
}

// LoadInitial replaces the local list with the remote one. It may be called
// once. A failure records a LoadError, leaves the list empty and moves the
// store to StateFailed, where it refuses mutations.
func (s *Store) LoadInitial(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.state = StateLoading
	s.mu.Unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	places, err := s.persister.FetchUserPlaces(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateFailed
		metrics.CatalogLoadTotal.WithLabelValues("user-places", metrics.ResultFailure).Inc()
		s.logger.Error("failed to fetch user places", "error", err)
		s.places = []models.Place{}
		s.loadErr = &models.LoadError{Source: "user-places", Message: pickMessage(err, msgLoadFailed, msgLoadFallback), Err: err}
		return s.loadErr
	}

	metrics.CatalogLoadTotal.WithLabelValues("user-places", metrics.ResultSuccess).Inc()
	s.state = StateReady
	s.places = models.DedupePlaces(places)
	metrics.SelectionSize.Set(float64(len(s.places)))
	return nil
}

// Select puts place at the front of the list and persists the result. Selecting
// a place that is already in the list changes nothing and sends nothing.
//
// On a failed persistence the list is reverted and the returned error is the
// recorded *models.UpdateError.
func (s *Store) Select(ctx context.Context, place models.Place) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	if models.IndexOf(s.places, place.ID) >= 0 {
		s.mu.Unlock()
		return nil
	}

	before := s.places
	after := append([]models.Place{place}, before...)
	s.places = after
	t := s.enqueueLocked()
	s.mu.Unlock()

	undo := func() {
		if models.SameIDs(s.places, after) {
			s.places = before
		} else if i := models.IndexOf(s.places, place.ID); i >= 0 {
			s.places = removeAt(s.places, i)
		}
	}
	return s.sync(ctx, t, opSelect, place.ID, msgSelectFallback, undo)
}

// Remove drops the place with the given id and persists the result. Removing
// an id that is not in the list changes nothing and sends nothing.
//
// On a failed persistence the place is put back and the returned error is the
// recorded *models.UpdateError.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	idx := models.IndexOf(s.places, id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	before := s.places
	removed := before[idx]
	after := removeAt(before, idx)
	s.places = after
	t := s.enqueueLocked()
	s.mu.Unlock()

	undo := func() {
		if models.SameIDs(s.places, after) {
			s.places = before
		} else if models.IndexOf(s.places, id) < 0 {
			s.places = insertAt(s.places, min(idx, len(s.places)), removed)
		}
	}
	return s.sync(ctx, t, opRemove, id, msgRemoveFallback, undo)
}

// Places returns a copy of the current list, most recently selected first.
func (s *Store) Places() []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ClonePlaces(s.places)
}

// View returns a snapshot of the store.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		State:     s.state,
		Places:    models.ClonePlaces(s.places),
		Syncing:   s.inFlight > 0,
		LoadErr:   s.loadErr,
		UpdateErr: s.updateErr,
	}
}

// UpdateError returns the last persistence failure, or nil.
func (s *Store) UpdateError() *models.UpdateError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateErr
}

// LoadError returns the initial load failure, or nil.
func (s *Store) LoadError() *models.LoadError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// DismissUpdateError clears the update error. It does not undo a rollback.
func (s *Store) DismissUpdateError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErr = nil
}

// DismissLoadError clears the load error.
func (s *Store) DismissLoadError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = nil
}

// turn orders one persistence request after the previous one.
type turn struct {
	gen  uint64
	prev <-chan struct{}
	done chan struct{}
}

// enqueueLocked numbers a mutation and reserves the next persistence slot.
// s.mu must be held so that slots are handed out in mutation order.
func (s *Store) enqueueLocked() turn {
	s.gen++
	t := turn{gen: s.gen, prev: s.tail, done: make(chan struct{})}
	s.tail = t.done
	s.inFlight++
	return t
}

// sync waits for the previous request, then sends the list as it stands. That
// list may already hold later mutations; when their own turn comes and the
// backend has them, nothing is sent. A failure runs undo and records an
// UpdateError before the next request may start, so later requests never send
// a reverted mutation.
func (s *Store) sync(ctx context.Context, t turn, op, placeID, fallback string, undo func()) error {
	select {
	case <-t.prev:
	case <-ctx.Done():
		go func() {
			<-t.prev
			close(t.done)
		}()
		return s.abandon(ctx, t, op, placeID, fallback, undo)
	}
	defer close(t.done)

	s.mu.Lock()
	if t.gen <= s.savedGen {
		defer s.mu.Unlock()
		s.succeededLocked(op, placeID, "already persisted")
		return nil
	}
	payload := models.ClonePlaces(s.places)
	payloadGen := s.gen
	sent := make(chan struct{})
	s.sending, s.sendingGen = sent, payloadGen
	s.mu.Unlock()

	reqCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	msg, err := s.persister.UpdateUserPlaces(reqCtx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = nil
	close(sent)

	if err != nil {
		return s.failLocked(op, placeID, fallback, err, undo)
	}
	s.savedGen = max(s.savedGen, payloadGen)
	s.succeededLocked(op, placeID, msg)
	return nil
}

// abandon settles a mutation whose caller gave up while queued. If a request
// already on the wire carries it, abandon waits for that outcome; the remote
// state decides whether the mutation stays. Otherwise it is reverted at once.
func (s *Store) abandon(ctx context.Context, t turn, op, placeID, fallback string, undo func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if t.gen <= s.savedGen {
			s.succeededLocked(op, placeID, "persisted by an earlier request")
			return nil
		}
		if s.sending == nil || t.gen > s.sendingGen {
			return s.failLocked(op, placeID, fallback, ctx.Err(), undo)
		}
		sent := s.sending
		s.mu.Unlock()
		<-sent
		s.mu.Lock()
	}
}

func (s *Store) succeededLocked(op, placeID, msg string) {
	s.inFlight--
	metrics.SelectionSyncTotal.WithLabelValues(op, metrics.ResultSuccess).Inc()
	metrics.SelectionSize.Set(float64(len(s.places)))
	s.logger.Debug("user places synced", "op", op, "place_id", placeID, "message", msg)
}

// failLocked reverts the mutation and records the UpdateError. Only mutations
// newer than savedGen reach it.
func (s *Store) failLocked(op, placeID, fallback string, err error, undo func()) error {
	s.inFlight--
	undo()

	metrics.SelectionSyncTotal.WithLabelValues(op, metrics.ResultFailure).Inc()
	metrics.SelectionRollbackTotal.WithLabelValues(op).Inc()
	metrics.SelectionSize.Set(float64(len(s.places)))
	s.logger.Error("failed to persist user places, reverted", "op", op, "place_id", placeID, "error", err)
	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Tags:  utils.MakeMap("op", op),
		Level: sentry.LevelWarning,
	})

	s.updateErr = &models.UpdateError{Op: op, PlaceID: placeID, Message: pickMessage(err, msgUpdateFailed, fallback), Err: err}
	return s.updateErr
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// pickMessage returns statusMsg for non-2xx answers and fallback for anything else.
func pickMessage(err error, statusMsg, fallback string) string {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return statusMsg
	}
	return fallback
}

func removeAt(places []models.Place, i int) []models.Place {
	out := make([]models.Place, 0, len(places)-1)
	out = append(out, places[:i]...)
	return append(out, places[i+1:]...)
}

func insertAt(places []models.Place, i int, p models.Place) []models.Place {
	out := make([]models.Place, 0, len(places)+1)
	out = append(out, places[:i]...)
	out = append(out, p)
	return append(out, places[i:]...)
}
