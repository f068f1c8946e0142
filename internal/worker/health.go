package worker

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHealthMux builds the worker's HTTP surface: a liveness endpoint for the
// platform and the Prometheus scrape endpoint.
func NewHealthMux(version string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q}`, version)
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
