package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/metrics"
	"cyclerent-ledger/internal/security"

	"github.com/gorilla/mux"
)

type contextKey string

const callerContextKey contextKey = "caller"

// CallerFromContext returns the identity verified by RequireCaller.
func CallerFromContext(ctx context.Context) (string, bool) {
	caller, ok := ctx.Value(callerContextKey).(string)
	return caller, ok && caller != ""
}

// RequireCaller rejects requests without a valid bearer token and stores
// the token's identity in the request context.
func RequireCaller(tm security.TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "authorization token is not provided"})
			return
		}
		claims, err := tm.ValidateToken(header[7:])
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: err.Error()})
			return
		}
		caller, err := domain.NormalizeIdentity(claims.Identity())
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "token carries no identity"})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), callerContextKey, caller)))
	}
}

// Observe records request counts and latency per route template.
func Observe(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.ObserveRequest("http", r.Method+" "+route, strconv.Itoa(recorder.status), time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
