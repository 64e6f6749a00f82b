package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"placepicker.dev/internal/metrics"
	"placepicker.dev/internal/models"
)

const maxBodyBytes = 1 << 20

// HealthStatus is the body of GET /v1/healthcheck. Ready is false when the
// catalog cannot be read.
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Storage     string `json:"storage"`
	Places      int    `json:"places"`
	Ready       bool   `json:"ready"`
}

func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	places, err := app.Catalog.LoadPlaces(r.Context())
	ready := err == nil

	status := HealthStatus{
		Status:      "available",
		Environment: app.Config.Env,
		Version:     app.Version,
		Storage:     app.UserPlaces.Name(),
		Places:      len(places),
		Ready:       ready,
	}

	code := http.StatusOK
	if !ready {
		app.Logger.Warn("catalog not readable", "error", err)
		code = http.StatusInternalServerError
	}
	app.writeJSON(w, code, status)
}

func (app *Application) placesHandler(w http.ResponseWriter, r *http.Request) {
	places, err := app.Catalog.LoadPlaces(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err, "Failed to load places.")
		return
	}
	app.writeJSON(w, http.StatusOK, models.PlacesEnvelope{Places: places})
}

func (app *Application) getUserPlacesHandler(w http.ResponseWriter, r *http.Request) {
	places, err := app.UserPlaces.LoadUserPlaces(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err, "Failed to load user places.")
		return
	}
	app.writeJSON(w, http.StatusOK, models.PlacesEnvelope{Places: models.ClonePlaces(places)})
}

func (app *Application) putUserPlacesHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Places *[]models.Place `json:"places"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		app.recordWrite(http.StatusBadRequest)
		app.errorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if input.Places == nil {
		app.recordWrite(http.StatusBadRequest)
		app.errorResponse(w, http.StatusBadRequest, "Missing places.")
		return
	}
	places := *input.Places

	if msg := validateUserPlaces(places); msg != "" {
		app.recordWrite(http.StatusBadRequest)
		app.errorResponse(w, http.StatusBadRequest, msg)
		return
	}

	if err := app.UserPlaces.SaveUserPlaces(r.Context(), places); err != nil {
		app.recordWrite(http.StatusInternalServerError)
		app.serverErrorResponse(w, r, err, "Failed to update user places.")
		return
	}

	app.recordWrite(http.StatusOK)
	metrics.StoredUserPlaces.Set(float64(len(places)))
	app.writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User places updated!"})
}

func (app *Application) recordWrite(status int) {
	metrics.UserPlacesWrites.WithLabelValues(strconv.Itoa(status)).Inc()
}

// validateUserPlaces returns a message for the client, or "" if places can be stored.
func validateUserPlaces(places []models.Place) string {
	seen := make(map[string]struct{}, len(places))
	for _, p := range places {
		if p.ID == "" {
			return "Every place needs an id."
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Sprintf("Duplicate place id %q.", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return ""
}
