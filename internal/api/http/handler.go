package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apigrpc "cyclerent-ledger/internal/api/grpc"
	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/service"

	"github.com/gorilla/mux"
)

// LedgerHandler is the REST mirror of the gRPC LedgerService. It shares the
// wire messages so both transports return identical JSON.
type LedgerHandler struct {
	cycleSvc   service.CycleService
	rentalSvc  service.RentalService
	disputeSvc service.DisputeService
	ledgerSvc  service.LedgerService
	now        service.Clock
}

func NewLedgerHandler(
	cycleSvc service.CycleService,
	rentalSvc service.RentalService,
	disputeSvc service.DisputeService,
	ledgerSvc service.LedgerService,
	now service.Clock,
) *LedgerHandler {
	if now == nil {
		now = time.Now
	}
	return &LedgerHandler{
		cycleSvc:   cycleSvc,
		rentalSvc:  rentalSvc,
		disputeSvc: disputeSvc,
		ledgerSvc:  ledgerSvc,
		now:        now,
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", domain.ErrInvalidInput, mux.Vars(r)["id"])
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func caller(r *http.Request) string {
	c, _ := CallerFromContext(r.Context())
	return c
}

func (h *LedgerHandler) ListCycle(w http.ResponseWriter, r *http.Request) {
	var req apigrpc.ListCycleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.cycleSvc.ListCycle(r.Context(), caller(r), req.Name, req.Description, req.ImageURL, req.PricePerHour)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apigrpc.MapDomainCycleToMessage(c))
}

func (h *LedgerHandler) UpdateCyclePrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req apigrpc.UpdateCyclePriceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.cycleSvc.UpdateCyclePrice(r.Context(), caller(r), id, req.NewPrice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.MapDomainCycleToMessage(c))
}

func (h *LedgerHandler) RemoveCycle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.cycleSvc.RemoveCycle(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.MapDomainCycleToMessage(c))
}

func (h *LedgerHandler) GetCycle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.cycleSvc.GetCycle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.MapDomainCycleToMessage(c))
}

func (h *LedgerHandler) GetOwnerCycles(w http.ResponseWriter, r *http.Request) {
	ids, err := h.cycleSvc.GetOwnerCycles(r.Context(), mux.Vars(r)["owner"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idList(ids))
}

func (h *LedgerHandler) GetAllAvailableCycles(w http.ResponseWriter, r *http.Request) {
	ids, err := h.cycleSvc.GetAllAvailableCycles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idList(ids))
}

func (h *LedgerHandler) GetTotalCycles(w http.ResponseWriter, r *http.Request) {
	n, err := h.cycleSvc.GetTotalCycles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.Count{Count: n})
}

func (h *LedgerHandler) RentCycle(w http.ResponseWriter, r *http.Request) {
	var req apigrpc.RentCycleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rt, err := h.rentalSvc.RentCycle(r.Context(), caller(r), req.CycleID, req.Hours, req.Payment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apigrpc.MapDomainRentalToMessage(rt, h.now()))
}

func (h *LedgerHandler) ReturnCycle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rt, err := h.rentalSvc.ReturnCycle(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.MapDomainRentalToMessage(rt, h.now()))
}

func (h *LedgerHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rt, err := h.rentalSvc.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.MapDomainRentalToMessage(rt, h.now()))
}

func (h *LedgerHandler) GetUserRentals(w http.ResponseWriter, r *http.Request) {
	ids, err := h.rentalSvc.GetUserRentals(r.Context(), mux.Vars(r)["renter"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idList(ids))
}

func (h *LedgerHandler) GetTotalRentals(w http.ResponseWriter, r *http.Request) {
	n, err := h.rentalSvc.GetTotalRentals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.Count{Count: n})
}

func (h *LedgerHandler) ListOverdueRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentalSvc.ListOverdueRentals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	now := h.now()
	resp := apigrpc.RentalList{Rentals: make([]*apigrpc.Rental, 0, len(rentals))}
	for i := range rentals {
		resp.Rentals = append(resp.Rentals, apigrpc.MapDomainRentalToMessage(&rentals[i], now))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LedgerHandler) ReportIssue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req apigrpc.ReportIssueRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rep, err := h.disputeSvc.ReportIssue(r.Context(), caller(r), id, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apigrpc.MapDomainIssueReportToMessage(rep))
}

func (h *LedgerHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rep, err := h.disputeSvc.ProcessRefund(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.MapDomainIssueReportToMessage(rep))
}

func (h *LedgerHandler) GetIssueReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rep, err := h.disputeSvc.GetIssueReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.MapDomainIssueReportToMessage(rep))
}

func (h *LedgerHandler) ListOpenIssues(w http.ResponseWriter, r *http.Request) {
	reports, err := h.disputeSvc.ListOpenIssues(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := apigrpc.IssueReportList{Reports: make([]*apigrpc.IssueReport, 0, len(reports))}
	for i := range reports {
		resp.Reports = append(resp.Reports, apigrpc.MapDomainIssueReportToMessage(&reports[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	bal, err := h.ledgerSvc.GetBalance(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.Balance{Account: account, Balance: bal})
}

func (h *LedgerHandler) GetRentalEntries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.ledgerSvc.GetRentalEntries(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := apigrpc.LedgerEntryList{Entries: make([]*apigrpc.LedgerEntry, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, apigrpc.MapDomainLedgerEntryToMessage(&entries[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LedgerHandler) GetEscrowBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.ledgerSvc.GetEscrowBalance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apigrpc.Balance{Account: domain.EscrowAccount, Balance: bal})
}

func idList(ids []int64) apigrpc.IDList {
	if ids == nil {
		ids = []int64{}
	}
	return apigrpc.IDList{IDs: ids}
}
