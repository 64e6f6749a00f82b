package shell

import (
	"fmt"
	"io"
	"strings"

	"placepicker.dev/internal/catalog"
	"placepicker.dev/internal/geo"
	"placepicker.dev/internal/models"
	"placepicker.dev/internal/selection"
)

const (
	Title    = "PlacePicker"
	Subtitle = "Create your personal collection of places you would like to visit or you have visited."

	SelectedTitle    = "I'd like to visit ..."
	SelectedFallback = "Select the places you would like to visit below."
	SelectedLoading  = "Fetching your places..."

	AvailableTitle    = "Available Places"
	AvailableFallback = "No places available."
	AvailableLoading  = "Fetching place data..."

	ConfirmTitle   = "Are you sure?"
	ConfirmMessage = "Do you really want to remove this place?"
)

// Render writes the full screen: the error modal if there is one, then the
// selected places, then the catalog.
func (s *Session) Render(w io.Writer) {
	store := s.Store.View()
	cat := s.Catalog.View()

	fmt.Fprintf(w, "%s\n%s\n\n", Title, Subtitle)
	if store.UpdateErr != nil {
		RenderModal(w, store.UpdateErr)
	}
	RenderSelected(w, store)
	fmt.Fprintln(w)
	RenderAvailable(w, cat)
}

// RenderSelected writes the user's selection or the panel for its LoadError.
func RenderSelected(w io.Writer, v selection.View) {
	heading(w, SelectedTitle)
	switch {
	case v.LoadErr != nil:
		RenderErrorPanel(w, v.LoadErr.Message)
	case v.State == selection.StateUninitialized, v.State == selection.StateLoading:
		fmt.Fprintln(w, SelectedLoading)
	case len(v.Places) == 0:
		fmt.Fprintln(w, SelectedFallback)
	default:
		for _, p := range v.Places {
			fmt.Fprintf(w, "  [%s] %s%s\n", p.ID, p.Name, imageSuffix(p.Image))
		}
	}
	if v.Syncing {
		fmt.Fprintln(w, "  (saving...)")
	}
}

// RenderAvailable writes the catalog, with distances when it is sorted.
func RenderAvailable(w io.Writer, v catalog.View) {
	heading(w, AvailableTitle)
	switch {
	case v.Err != nil:
		RenderErrorPanel(w, v.Err.Message)
	case v.State != catalog.StateReady:
		fmt.Fprintln(w, AvailableLoading)
	case len(v.Places) == 0:
		fmt.Fprintln(w, AvailableFallback)
	default:
		for _, rp := range v.Places {
			fmt.Fprintf(w, "  [%s] %s%s\n", rp.Place.ID, rp.Place.Name, distanceSuffix(rp, v.Sorted))
		}
	}
}

// RenderErrorPanel replaces a list with the error title and message.
func RenderErrorPanel(w io.Writer, message string) {
	fmt.Fprintf(w, "  ! %s\n  %s\n", models.ErrorTitle, message)
}

// RenderModal frames an UpdateError; it stays until dismissed.
func RenderModal(w io.Writer, err *models.UpdateError) {
	width := max(len(models.ErrorTitle), len(err.Message)) + 4
	border := "+" + strings.Repeat("-", width-2) + "+"

	fmt.Fprintln(w, border)
	fmt.Fprintf(w, "| %-*s |\n", width-4, models.ErrorTitle)
	fmt.Fprintf(w, "| %-*s |\n", width-4, err.Message)
	fmt.Fprintln(w, border)
	fmt.Fprintln(w)
}

// RenderConfirm writes the removal prompt.
func RenderConfirm(w io.Writer) {
	fmt.Fprintf(w, "%s\n%s [y/N] ", ConfirmTitle, ConfirmMessage)
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func distanceSuffix(rp geo.RankedPlace, sorted bool) string {
	if !sorted {
		return ""
	}
	if rp.DistanceMeters < 1000 {
		return fmt.Sprintf(" (%.0f m)", rp.DistanceMeters)
	}
	return fmt.Sprintf(" (%.1f km)", rp.DistanceMeters/1000)
}

func imageSuffix(img models.Image) string {
	if img.Alt == "" {
		return ""
	}
	return " - " + img.Alt
}
