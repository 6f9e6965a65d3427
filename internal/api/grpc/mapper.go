package grpc

import (
	"time"

	"cyclerent-ledger/internal/domain"
)

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func MapDomainCycleToMessage(c *domain.Cycle) *Cycle {
	if c == nil {
		return nil
	}
	return &Cycle{
		ID:           c.ID,
		Owner:        c.Owner,
		Name:         c.Name,
		Description:  c.Description,
		ImageURL:     c.ImageURL,
		PricePerHour: c.PricePerHour,
		IsAvailable:  c.IsAvailable,
		IsActive:     c.IsActive,
		CreatedAt:    unixOrZero(c.CreatedAt),
		UpdatedAt:    unixOrZero(c.UpdatedAt),
	}
}

// MapDomainRentalToMessage reports overdue status as of now.
func MapDomainRentalToMessage(r *domain.Rental, now time.Time) *Rental {
	if r == nil {
		return nil
	}
	return &Rental{
		ID:               r.ID,
		CycleID:          r.CycleID,
		Renter:           r.Renter,
		StartTime:        unixOrZero(r.StartTime),
		EndTime:          unixOrZero(r.EndTime),
		TotalCost:        r.TotalCost,
		IsActive:         r.IsActive,
		IsReturned:       r.IsReturned,
		HasIssueReported: r.HasIssueReported,
		IsOverdue:        r.IsOverdue(now),
		Status:           string(r.Status()),
	}
}

func MapDomainIssueReportToMessage(rep *domain.IssueReport) *IssueReport {
	if rep == nil {
		return nil
	}
	msg := &IssueReport{
		RentalID:        rep.RentalID,
		Reporter:        rep.Reporter,
		Description:     rep.Description,
		ReportTime:      unixOrZero(rep.ReportTime),
		IsResolved:      rep.IsResolved,
		RefundProcessed: rep.RefundProcessed,
	}
	if rep.ResolvedAt != nil {
		msg.ResolvedAt = rep.ResolvedAt.Unix()
	}
	return msg
}

func MapDomainLedgerEntryToMessage(e *domain.LedgerEntry) *LedgerEntry {
	if e == nil {
		return nil
	}
	return &LedgerEntry{
		ID:        e.ID,
		RentalID:  e.RentalID,
		Type:      string(e.Type),
		From:      e.From,
		To:        e.To,
		Amount:    e.Amount,
		CreatedAt: unixOrZero(e.CreatedAt),
	}
}

func mapIDs(ids []int64) *IDList {
	if ids == nil {
		ids = []int64{}
	}
	return &IDList{IDs: ids}
}
