package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apigrpc "cyclerent-ledger/internal/api/grpc"
	"cyclerent-ledger/internal/config"
	"cyclerent-ledger/internal/metrics"
	"cyclerent-ledger/internal/repository/memory"
	"cyclerent-ledger/internal/security"
	"cyclerent-ledger/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testServer struct {
	srv    *httptest.Server
	tokens map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.LedgerConfig{
		AdminIdentity:   "admin",
		PlatformAccount: "platform",
		FeeBasisPoints:  500,
		MinRentalHours:  1,
		MaxRentalHours:  24,
	}
	store := memory.NewStore()
	disputes, err := service.NewDisputeService(store, cfg, nil)
	require.NoError(t, err)
	h := NewLedgerHandler(
		service.NewCycleService(store, cfg, nil),
		service.NewRentalService(store, cfg, nil),
		disputes,
		service.NewLedgerService(store),
		nil,
	)
	tm := security.NewTokenManager(testSecret, "cyclerent-ledger", time.Hour)
	router := mux.NewRouter()
	RegisterLedgerRoutes(router, h, tm, metrics.New())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	tokens := map[string]string{}
	for _, id := range []string{"alice", "bob", "admin"} {
		tok, err := tm.GenerateAccessToken(id)
		require.NoError(t, err)
		tokens[id] = tok
	}
	return &testServer{srv: srv, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, as string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(t, err)
	if as != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[as])
	}
	resp, err := s.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeInto[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestRouter_RentAndReturn(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodPost, "/api/v1/cycles", "alice", apigrpc.ListCycleRequest{
		Name: "Bike", Description: "Road bike", PricePerHour: 10,
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	cycle := decodeInto[apigrpc.Cycle](t, body)
	assert.Equal(t, "alice", cycle.Owner)

	code, body = s.do(t, http.MethodGet, "/api/v1/cycles/available", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []int64{cycle.ID}, decodeInto[apigrpc.IDList](t, body).IDs)

	code, body = s.do(t, http.MethodPost, "/api/v1/rentals", "bob", apigrpc.RentCycleRequest{
		CycleID: cycle.ID, Hours: 2, Payment: 20,
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	rental := decodeInto[apigrpc.Rental](t, body)
	assert.Equal(t, "ACTIVE", rental.Status)
	assert.False(t, rental.IsOverdue)

	code, body = s.do(t, http.MethodGet, "/api/v1/escrow", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(20), decodeInto[apigrpc.Balance](t, body).Balance)

	code, body = s.do(t, http.MethodPost, "/api/v1/rentals/1/return", "bob", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.True(t, decodeInto[apigrpc.Rental](t, body).IsReturned)

	code, body = s.do(t, http.MethodGet, "/api/v1/balances/alice", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(19), decodeInto[apigrpc.Balance](t, body).Balance)

	code, body = s.do(t, http.MethodGet, "/api/v1/rentals/1/entries", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeInto[apigrpc.LedgerEntryList](t, body).Entries, 3)

	code, body = s.do(t, http.MethodGet, "/api/v1/renters/bob/rentals", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []int64{rental.ID}, decodeInto[apigrpc.IDList](t, body).IDs)

	code, body = s.do(t, http.MethodGet, "/api/v1/rentals/count", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), decodeInto[apigrpc.Count](t, body).Count)
}

func TestRouter_DisputeFlow(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(t, http.MethodPost, "/api/v1/cycles", "alice", apigrpc.ListCycleRequest{
		Name: "Bike", Description: "Road bike", PricePerHour: 10,
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/rentals", "bob", apigrpc.RentCycleRequest{CycleID: 1, Hours: 1, Payment: 10})
	require.Equal(t, http.StatusCreated, code)

	code, body := s.do(t, http.MethodPost, "/api/v1/rentals/1/issue", "bob", apigrpc.ReportIssueRequest{Description: "flat tyre"})
	require.Equal(t, http.StatusCreated, code, string(body))

	code, body = s.do(t, http.MethodGet, "/api/v1/issues/open", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeInto[apigrpc.IssueReportList](t, body).Reports, 1)

	code, body = s.do(t, http.MethodPost, "/api/v1/rentals/1/refund", "alice", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NOT_ADMIN", decodeInto[errorResponse](t, body).Code)

	code, body = s.do(t, http.MethodPost, "/api/v1/rentals/1/refund", "admin", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.True(t, decodeInto[apigrpc.IssueReport](t, body).RefundProcessed)

	code, body = s.do(t, http.MethodGet, "/api/v1/rentals/1/issue", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decodeInto[apigrpc.IssueReport](t, body).IsResolved)

	code, body = s.do(t, http.MethodGet, "/api/v1/balances/bob", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, decodeInto[apigrpc.Balance](t, body).Balance)
}

func TestRouter_Errors(t *testing.T) {
	s := newTestServer(t)

	t.Run("Missing token", func(t *testing.T) {
		code, body := s.do(t, http.MethodPost, "/api/v1/cycles", "", apigrpc.ListCycleRequest{Name: "Bike"})
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "UNAUTHENTICATED", decodeInto[errorResponse](t, body).Code)
	})

	t.Run("Unknown cycle", func(t *testing.T) {
		code, body := s.do(t, http.MethodGet, "/api/v1/cycles/77", "", nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "NOT_FOUND", decodeInto[errorResponse](t, body).Code)
	})

	t.Run("Validation", func(t *testing.T) {
		code, body := s.do(t, http.MethodPost, "/api/v1/cycles", "alice", apigrpc.ListCycleRequest{Name: "Bike", Description: "x"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "INVALID_INPUT", decodeInto[errorResponse](t, body).Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/api/v1/rentals", strings.NewReader("{"))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+s.tokens["bob"])
		resp, err := s.srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Payment mismatch", func(t *testing.T) {
		code, _ := s.do(t, http.MethodPost, "/api/v1/cycles", "alice", apigrpc.ListCycleRequest{
			Name: "Bike", Description: "Road bike", PricePerHour: 10,
		})
		require.Equal(t, http.StatusCreated, code)
		code, body := s.do(t, http.MethodPost, "/api/v1/rentals", "bob", apigrpc.RentCycleRequest{CycleID: 1, Hours: 2, Payment: 5})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "PAYMENT_MISMATCH", decodeInto[errorResponse](t, body).Code)
	})
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)

	_, _ = s.do(t, http.MethodGet, "/api/v1/cycles/count", "", nil)
	code, body := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `cyclerent_requests_total{code="200",method="GET /api/v1/cycles/count",transport="http"} 1`)
}
