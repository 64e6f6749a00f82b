package client

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"placepicker.dev/internal/metrics"
)

// latencyTrackingRoundTripper wraps another RoundTripper and records the
// duration of every outgoing request in metrics.OutgoingLatency, labelled by
// URL (without query), method and status.
type latencyTrackingRoundTripper struct {
	next http.RoundTripper
}

func (rt *latencyTrackingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.next.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	safeURL := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	metrics.OutgoingLatency.WithLabelValues(
		safeURL,
		req.Method,
		status,
	).Observe(duration)

	return resp, err
}

// NewPooledClient returns an HTTP client for talking to the places backend.
//
// The transport keeps a small pool of keep-alive connections to the single
// backend host, fails fast on unreachable hosts (5s dial and TLS handshake) and
// bounds every request by timeout. The transport is instrumented with
// latencyTrackingRoundTripper.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: Instrument(newTransport()),
		Timeout:   timeout,
	}
}

// Instrument wraps next with request latency tracking. A nil next uses
// http.DefaultTransport.
func Instrument(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &latencyTrackingRoundTripper{next: next}
}

func newTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
	}
}
