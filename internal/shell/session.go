// Package shell drives a place picking session from a terminal: it loads the
// catalog and the user's selection, resolves commands against them and
// renders the result.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc"

	"placepicker.dev/internal/catalog"
	"placepicker.dev/internal/models"
	"placepicker.dev/internal/selection"
)

// ErrUnknownPlace is returned when an id is not in the catalog.
var ErrUnknownPlace = errors.New("unknown place")

// Confirm asks the user to approve a removal. It returns false to cancel.
type Confirm func(title, message string) bool

// Session pairs a catalog with a selection store.
type Session struct {
	Catalog *catalog.Catalog
	Store   *selection.Store
	Logger  *slog.Logger
}

func NewSession(cat *catalog.Catalog, store *selection.Store, logger *slog.Logger) *Session {
	return &Session{Catalog: cat, Store: store, Logger: logger}
}

// Start loads the catalog and the selection concurrently. Both loads always
// run to completion; their LoadErrors are joined in the result and also kept
// in the views for rendering.
func (s *Session) Start(ctx context.Context) error {
	var catalogErr, storeErr error

	var wg conc.WaitGroup
	wg.Go(func() { catalogErr = s.Catalog.Load(ctx) })
	wg.Go(func() { storeErr = s.Store.LoadInitial(ctx) })
	wg.Wait()

	return errors.Join(catalogErr, storeErr)
}

// SelectByID adds the catalog place with the given id to the selection.
func (s *Session) SelectByID(ctx context.Context, id string) error {
	place, ok := s.Catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlace, id)
	}
	return s.Store.Select(ctx, place)
}

// RemoveByID asks confirm before removing id from the selection. It reports
// whether the removal went ahead. Ids that are not selected are ignored
// without asking.
func (s *Session) RemoveByID(ctx context.Context, id string, confirm Confirm) (bool, error) {
	if s.Store.View().State != selection.StateReady {
		return false, selection.ErrNotReady
	}
	if models.IndexOf(s.Store.Places(), id) < 0 {
		return false, nil
	}
	if confirm != nil && !confirm(ConfirmTitle, ConfirmMessage) {
		s.Logger.Info("removal cancelled", "place_id", id)
		return false, nil
	}
	return true, s.Store.Remove(ctx, id)
}

// DismissError clears the update error shown in the modal.
func (s *Session) DismissError() {
	s.Store.DismissUpdateError()
}
