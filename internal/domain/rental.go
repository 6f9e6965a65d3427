package domain

import "time"

type RentalStatus string

const (
	RentalStatusActive   RentalStatus = "ACTIVE"
	RentalStatusDisputed RentalStatus = "DISPUTED"
	RentalStatusReturned RentalStatus = "RETURNED"
	RentalStatusRefunded RentalStatus = "REFUNDED"
)

// Rental is a time-boxed lease of a cycle. TotalCost is escrowed when the
// rental opens and never changes afterwards.
type Rental struct {
	ID               int64     `json:"id"`
	CycleID          int64     `json:"cycle_id"`
	Renter           string    `json:"renter"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TotalCost        int64     `json:"total_cost"`
	IsActive         bool      `json:"is_active"`
	IsReturned       bool      `json:"is_returned"`
	HasIssueReported bool      `json:"has_issue_reported"`
}

// Status derives the lifecycle state from the rental flags.
func (r *Rental) Status() RentalStatus {
	switch {
	case r.IsReturned:
		return RentalStatusReturned
	case !r.IsActive:
		return RentalStatusRefunded
	case r.HasIssueReported:
		return RentalStatusDisputed
	default:
		return RentalStatusActive
	}
}

// IsOverdue is advisory: an overdue rental may still be returned.
func (r *Rental) IsOverdue(now time.Time) bool {
	return r.IsActive && now.After(r.EndTime)
}
