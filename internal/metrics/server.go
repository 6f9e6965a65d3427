package metrics

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewServer serves the registry on /metrics with a /healthz check. Used by
// processes that have no REST gateway of their own, such as the cronjob.
func NewServer(addr string, m *Metrics) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
