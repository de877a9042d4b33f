package logattrs

import (
	"fmt"
	"net/http"
)

// HealthHandler returns an HTTP handler that serves the current attribute
// values and statuses as JSON, a standard /health endpoint for containerized
// applications.
func (s *State) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "%s\n", s.Dump())
	}
}

// StatusHandler returns a simple UP/DOWN status endpoint.
// Returns 200 OK while no attribute evaluates to ERROR, 503 Service
// Unavailable otherwise.
func (s *State) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		down := false
		for _, status := range s.EvaluateAll(nil) {
			if status == StatusError {
				down = true
				break
			}
		}

		w.Header().Set("Content-Type", "text/plain")
		if down {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "DOWN\n")
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "UP\n")
	}
}
