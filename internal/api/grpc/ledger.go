package grpc

import (
	"context"
	"time"

	"cyclerent-ledger/internal/service"
)

// LedgerHandler serves cyclerent.ledger.v1.LedgerService. Commands act as
// the caller placed in the metadata by the auth interceptor. Service errors
// are returned unchanged; the error interceptor maps them to status codes.
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

func (h *LedgerHandler) ListCycle(ctx context.Context, req *ListCycleRequest) (*Cycle, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.cycleSvc.ListCycle(ctx, caller, req.Name, req.Description, req.ImageURL, req.PricePerHour)
	if err != nil {
		return nil, err
	}
	return MapDomainCycleToMessage(c), nil
}

func (h *LedgerHandler) UpdateCyclePrice(ctx context.Context, req *UpdateCyclePriceRequest) (*Cycle, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.cycleSvc.UpdateCyclePrice(ctx, caller, req.CycleID, req.NewPrice)
	if err != nil {
		return nil, err
	}
	return MapDomainCycleToMessage(c), nil
}

func (h *LedgerHandler) RemoveCycle(ctx context.Context, req *CycleIDRequest) (*Cycle, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.cycleSvc.RemoveCycle(ctx, caller, req.CycleID)
	if err != nil {
		return nil, err
	}
	return MapDomainCycleToMessage(c), nil
}

func (h *LedgerHandler) GetCycle(ctx context.Context, req *CycleIDRequest) (*Cycle, error) {
	c, err := h.cycleSvc.GetCycle(ctx, req.CycleID)
	if err != nil {
		return nil, err
	}
	return MapDomainCycleToMessage(c), nil
}

func (h *LedgerHandler) GetOwnerCycles(ctx context.Context, req *OwnerRequest) (*IDList, error) {
	ids, err := h.cycleSvc.GetOwnerCycles(ctx, req.Owner)
	if err != nil {
		return nil, err
	}
	return mapIDs(ids), nil
}

func (h *LedgerHandler) GetAllAvailableCycles(ctx context.Context, _ *Empty) (*IDList, error) {
	ids, err := h.cycleSvc.GetAllAvailableCycles(ctx)
	if err != nil {
		return nil, err
	}
	return mapIDs(ids), nil
}

func (h *LedgerHandler) GetTotalCycles(ctx context.Context, _ *Empty) (*Count, error) {
	n, err := h.cycleSvc.GetTotalCycles(ctx)
	if err != nil {
		return nil, err
	}
	return &Count{Count: n}, nil
}

func (h *LedgerHandler) RentCycle(ctx context.Context, req *RentCycleRequest) (*Rental, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rt, err := h.rentalSvc.RentCycle(ctx, caller, req.CycleID, req.Hours, req.Payment)
	if err != nil {
		return nil, err
	}
	return MapDomainRentalToMessage(rt, h.now()), nil
}

func (h *LedgerHandler) ReturnCycle(ctx context.Context, req *RentalIDRequest) (*Rental, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rt, err := h.rentalSvc.ReturnCycle(ctx, caller, req.RentalID)
	if err != nil {
		return nil, err
	}
	return MapDomainRentalToMessage(rt, h.now()), nil
}

func (h *LedgerHandler) GetRental(ctx context.Context, req *RentalIDRequest) (*Rental, error) {
	rt, err := h.rentalSvc.GetRental(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	return MapDomainRentalToMessage(rt, h.now()), nil
}

func (h *LedgerHandler) GetUserRentals(ctx context.Context, req *RenterRequest) (*IDList, error) {
	ids, err := h.rentalSvc.GetUserRentals(ctx, req.Renter)
	if err != nil {
		return nil, err
	}
	return mapIDs(ids), nil
}

func (h *LedgerHandler) GetTotalRentals(ctx context.Context, _ *Empty) (*Count, error) {
	n, err := h.rentalSvc.GetTotalRentals(ctx)
	if err != nil {
		return nil, err
	}
	return &Count{Count: n}, nil
}

func (h *LedgerHandler) ListOverdueRentals(ctx context.Context, _ *Empty) (*RentalList, error) {
	rentals, err := h.rentalSvc.ListOverdueRentals(ctx)
	if err != nil {
		return nil, err
	}
	now := h.now()
	resp := &RentalList{Rentals: make([]*Rental, 0, len(rentals))}
	for i := range rentals {
		resp.Rentals = append(resp.Rentals, MapDomainRentalToMessage(&rentals[i], now))
	}
	return resp, nil
}

func (h *LedgerHandler) ReportIssue(ctx context.Context, req *ReportIssueRequest) (*IssueReport, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rep, err := h.disputeSvc.ReportIssue(ctx, caller, req.RentalID, req.Description)
	if err != nil {
		return nil, err
	}
	return MapDomainIssueReportToMessage(rep), nil
}

func (h *LedgerHandler) ProcessRefund(ctx context.Context, req *RentalIDRequest) (*IssueReport, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rep, err := h.disputeSvc.ProcessRefund(ctx, caller, req.RentalID)
	if err != nil {
		return nil, err
	}
	return MapDomainIssueReportToMessage(rep), nil
}

func (h *LedgerHandler) GetIssueReport(ctx context.Context, req *RentalIDRequest) (*IssueReport, error) {
	rep, err := h.disputeSvc.GetIssueReport(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	return MapDomainIssueReportToMessage(rep), nil
}

func (h *LedgerHandler) ListOpenIssues(ctx context.Context, _ *Empty) (*IssueReportList, error) {
	reports, err := h.disputeSvc.ListOpenIssues(ctx)
	if err != nil {
		return nil, err
	}
	resp := &IssueReportList{Reports: make([]*IssueReport, 0, len(reports))}
	for i := range reports {
		resp.Reports = append(resp.Reports, MapDomainIssueReportToMessage(&reports[i]))
	}
	return resp, nil
}

func (h *LedgerHandler) GetBalance(ctx context.Context, req *AccountRequest) (*Balance, error) {
	bal, err := h.ledgerSvc.GetBalance(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	return &Balance{Account: req.Account, Balance: bal}, nil
}

func (h *LedgerHandler) GetRentalEntries(ctx context.Context, req *RentalIDRequest) (*LedgerEntryList, error) {
	entries, err := h.ledgerSvc.GetRentalEntries(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	resp := &LedgerEntryList{Entries: make([]*LedgerEntry, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, MapDomainLedgerEntryToMessage(&entries[i]))
	}
	return resp, nil
}

func (h *LedgerHandler) GetEscrowBalance(ctx context.Context, _ *Empty) (*Balance, error) {
	bal, err := h.ledgerSvc.GetEscrowBalance(ctx)
	if err != nil {
		return nil, err
	}
	return &Balance{Account: "escrow", Balance: bal}, nil
}
