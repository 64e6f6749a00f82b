package middleware

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
)

// Sentry attaches a hub to each request and reports panics before letting
// them propagate to Recovery.
func Sentry(timeout time.Duration) func(http.Handler) http.Handler {
	handler := sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         timeout,
	})

	return func(next http.Handler) http.Handler {
		return handler.Handle(next)
	}
}
