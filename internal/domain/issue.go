package domain

import "time"

// IssueReport is a dispute filed by the renter. There is at most one per rental.
type IssueReport struct {
	RentalID        int64      `json:"rental_id"`
	Reporter        string     `json:"reporter"`
	Description     string     `json:"description"`
	ReportTime      time.Time  `json:"report_time"`
	IsResolved      bool       `json:"is_resolved"`
	RefundProcessed bool       `json:"refund_processed"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}
