package http

import (
	"net/http"

	"cyclerent-ledger/internal/metrics"
	"cyclerent-ledger/internal/security"

	"github.com/gorilla/mux"
)

// RegisterLedgerRoutes mounts the REST API under /api/v1 plus /healthz and
// /metrics. Commands require a bearer token; queries are public.
func RegisterLedgerRoutes(router *mux.Router, h *LedgerHandler, tm security.TokenManager, m *metrics.Metrics) {
	router.Use(Observe(m))

	auth := func(fn http.HandlerFunc) http.HandlerFunc {
		return RequireCaller(tm, fn)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	// Cycles
	api.HandleFunc("/cycles", auth(h.ListCycle)).Methods(http.MethodPost)
	api.HandleFunc("/cycles/available", h.GetAllAvailableCycles).Methods(http.MethodGet)
	api.HandleFunc("/cycles/count", h.GetTotalCycles).Methods(http.MethodGet)
	api.HandleFunc("/cycles/{id:[0-9]+}", h.GetCycle).Methods(http.MethodGet)
	api.HandleFunc("/cycles/{id:[0-9]+}", auth(h.RemoveCycle)).Methods(http.MethodDelete)
	api.HandleFunc("/cycles/{id:[0-9]+}/price", auth(h.UpdateCyclePrice)).Methods(http.MethodPut)
	api.HandleFunc("/owners/{owner}/cycles", h.GetOwnerCycles).Methods(http.MethodGet)

	// Rentals
	api.HandleFunc("/rentals", auth(h.RentCycle)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/count", h.GetTotalRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/overdue", h.ListOverdueRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", h.GetRental).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/return", auth(h.ReturnCycle)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/entries", h.GetRentalEntries).Methods(http.MethodGet)
	api.HandleFunc("/renters/{renter}/rentals", h.GetUserRentals).Methods(http.MethodGet)

	// Disputes
	api.HandleFunc("/rentals/{id:[0-9]+}/issue", auth(h.ReportIssue)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/issue", h.GetIssueReport).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/refund", auth(h.ProcessRefund)).Methods(http.MethodPost)
	api.HandleFunc("/issues/open", h.ListOpenIssues).Methods(http.MethodGet)

	// Balances
	api.HandleFunc("/balances/{account}", h.GetBalance).Methods(http.MethodGet)
	api.HandleFunc("/escrow", h.GetEscrowBalance).Methods(http.MethodGet)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
}
