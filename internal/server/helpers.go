package server

import (
	"encoding/json"
	"net/http"

	"github.com/getsentry/sentry-go"

	"placepicker.dev/internal/models"
	"placepicker.dev/internal/report"
	"placepicker.dev/internal/utils"
)

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.Logger.Error("failed to encode response", "error", err)
	}
}

func (app *Application) errorResponse(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, models.MessageResponse{Message: message})
}

// serverErrorResponse logs and reports err; the client only sees message.
func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error, message string) {
	app.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Tags:  utils.MakeMap("path", r.URL.Path),
		Level: sentry.LevelError,
	})
	app.errorResponse(w, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, http.StatusNotFound, "Not found")
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
}
