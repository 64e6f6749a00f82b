package server

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"

	"placepicker.dev/internal/middleware"
)

// Routes registers the endpoints and wraps the router in the middleware
// chain. ctx bounds the background refresh of the metrics cache.
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/places", app.placesHandler)
	router.HandlerFunc(http.MethodGet, "/user-places", app.getUserPlacesHandler)
	router.HandlerFunc(http.MethodPut, "/user-places", app.putUserPlacesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.ServeFiles("/images/*filepath", http.Dir(app.Config.ImagesDir))
	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second))

	return middleware.Chain(router,
		middleware.Recovery(app.Logger),
		middleware.Logging(app.Logger),
		middleware.Sentry(2*time.Second),
		middleware.CORS(http.MethodGet, http.MethodPut),
		middleware.SecurityHeaders,
	)
}
