package api

import "net/http"

// Counter reports how many documents the knowledge index holds.
type Counter interface {
	Count() int
}

// health is a simple health check endpoint for container probes.
// Returns 200 OK with {"status":"ok"}.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness reports whether the service can answer queries. A nil index
// always reads as ready with zero documents.
func readiness(index Counter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		documents := 0
		if index != nil {
			documents = index.Count()
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ready",
			"documents": documents,
		})
	})
}
