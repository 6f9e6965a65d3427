package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/logger"
)

var httpStatuses = map[domain.ErrorCode]int{
	domain.CodeInvalidInput:     http.StatusBadRequest,
	domain.CodeInvalidDuration:  http.StatusBadRequest,
	domain.CodePaymentMismatch:  http.StatusBadRequest,
	domain.CodeSelfRental:       http.StatusBadRequest,
	domain.CodeNotFound:         http.StatusNotFound,
	domain.CodeNotOwner:         http.StatusForbidden,
	domain.CodeNotRenter:        http.StatusForbidden,
	domain.CodeNotAdmin:         http.StatusForbidden,
	domain.CodeCycleUnavailable: http.StatusConflict,
	domain.CodeAlreadyReturned:  http.StatusConflict,
	domain.CodeAlreadyReported:  http.StatusConflict,
	domain.CodeAlreadyRefunded:  http.StatusConflict,
	domain.CodeDisputeOpen:      http.StatusConflict,
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: string(domain.CodeInternal), Message: err.Error()})
		return
	}
	code := domain.CodeOf(err)
	status, ok := httpStatuses[code]
	if !ok {
		logger.Error("Internal ledger error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: string(domain.CodeInternal), Message: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: err.Error()})
}
