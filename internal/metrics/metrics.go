package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OutgoingLatency tracks the duration of requests made by the places client.
	OutgoingLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "placepicker_outgoing_request_duration_seconds",
			Help:    "Latency of outgoing HTTP requests to the places backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"url", "method", "status"},
	)
)

var (
	// SelectionSyncTotal counts persistence attempts of the selection list.
	SelectionSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placepicker_selection_sync_total",
		Help: "Number of selection persistence attempts by operation and result (success, failure)",
	}, []string{"op", "result"})

	// SelectionRollbackTotal counts local rollbacks after a failed persistence.
	SelectionRollbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placepicker_selection_rollback_total",
		Help: "Number of optimistic updates reverted after a failed persistence",
	}, []string{"op"})

	// SelectionSize is the number of places currently selected.
	SelectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "placepicker_selection_size",
		Help: "Number of places in the in-memory selection list",
	})
)

var (
	// CatalogLoadTotal counts catalog and selection loads by source and result.
	CatalogLoadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placepicker_load_total",
		Help: "Number of list loads by source (places, user-places) and result (success, failure)",
	}, []string{"source", "result"})

	// LocatorFallbackTotal counts catalog loads shown unsorted because no position was available.
	LocatorFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "placepicker_locator_fallback_total",
		Help: "Number of catalog loads that fell back to unsorted order because the position was unavailable",
	})
)

var (
	// UserPlacesWrites counts PUT /user-places handled by the backend.
	UserPlacesWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placepicker_backend_user_places_writes_total",
		Help: "Number of user places replacements handled by the backend, by status code",
	}, []string{"status"})

	// StoredUserPlaces is the size of the last list written by the backend.
	StoredUserPlaces = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "placepicker_backend_user_places",
		Help: "Number of places in the persisted user selection",
	})
)

// Result labels shared by the counters above.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
