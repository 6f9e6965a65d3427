package grpc

// Wire messages for cyclerent.ledger.v1.LedgerService. Times are unix
// seconds; zero means unset.

type Empty struct{}

type ListCycleRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	PricePerHour int64  `json:"price_per_hour"`
}

type UpdateCyclePriceRequest struct {
	CycleID  int64 `json:"cycle_id"`
	NewPrice int64 `json:"new_price"`
}

type CycleIDRequest struct {
	CycleID int64 `json:"cycle_id"`
}

type OwnerRequest struct {
	Owner string `json:"owner"`
}

type RentCycleRequest struct {
	CycleID int64 `json:"cycle_id"`
	Hours   int64 `json:"hours"`
	Payment int64 `json:"payment"`
}

type RentalIDRequest struct {
	RentalID int64 `json:"rental_id"`
}

type RenterRequest struct {
	Renter string `json:"renter"`
}

type ReportIssueRequest struct {
	RentalID    int64  `json:"rental_id"`
	Description string `json:"description"`
}

type AccountRequest struct {
	Account string `json:"account"`
}

type Cycle struct {
	ID           int64  `json:"id"`
	Owner        string `json:"owner"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	PricePerHour int64  `json:"price_per_hour"`
	IsAvailable  bool   `json:"is_available"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

type Rental struct {
	ID               int64  `json:"id"`
	CycleID          int64  `json:"cycle_id"`
	Renter           string `json:"renter"`
	StartTime        int64  `json:"start_time"`
	EndTime          int64  `json:"end_time"`
	TotalCost        int64  `json:"total_cost"`
	IsActive         bool   `json:"is_active"`
	IsReturned       bool   `json:"is_returned"`
	HasIssueReported bool   `json:"has_issue_reported"`
	IsOverdue        bool   `json:"is_overdue"`
	Status           string `json:"status"`
}

type IssueReport struct {
	RentalID        int64  `json:"rental_id"`
	Reporter        string `json:"reporter"`
	Description     string `json:"description"`
	ReportTime      int64  `json:"report_time"`
	IsResolved      bool   `json:"is_resolved"`
	RefundProcessed bool   `json:"refund_processed"`
	ResolvedAt      int64  `json:"resolved_at,omitempty"`
}

type LedgerEntry struct {
	ID        string `json:"id"`
	RentalID  int64  `json:"rental_id"`
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    int64  `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}

type IDList struct {
	IDs []int64 `json:"ids"`
}

type Count struct {
	Count int64 `json:"count"`
}

type RentalList struct {
	Rentals []*Rental `json:"rentals"`
}

type IssueReportList struct {
	Reports []*IssueReport `json:"reports"`
}

type LedgerEntryList struct {
	Entries []*LedgerEntry `json:"entries"`
}

type Balance struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}
