package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// LedgerClient calls LedgerService over a connection using the JSON codec.
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *LedgerClient, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	resp := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, resp, opts...); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *LedgerClient) ListCycle(ctx context.Context, req *ListCycleRequest, opts ...grpc.CallOption) (*Cycle, error) {
	return invoke[Cycle](ctx, c, "ListCycle", req, opts...)
}

func (c *LedgerClient) UpdateCyclePrice(ctx context.Context, req *UpdateCyclePriceRequest, opts ...grpc.CallOption) (*Cycle, error) {
	return invoke[Cycle](ctx, c, "UpdateCyclePrice", req, opts...)
}

func (c *LedgerClient) RemoveCycle(ctx context.Context, req *CycleIDRequest, opts ...grpc.CallOption) (*Cycle, error) {
	return invoke[Cycle](ctx, c, "RemoveCycle", req, opts...)
}

func (c *LedgerClient) GetCycle(ctx context.Context, req *CycleIDRequest, opts ...grpc.CallOption) (*Cycle, error) {
	return invoke[Cycle](ctx, c, "GetCycle", req, opts...)
}

func (c *LedgerClient) GetOwnerCycles(ctx context.Context, req *OwnerRequest, opts ...grpc.CallOption) (*IDList, error) {
	return invoke[IDList](ctx, c, "GetOwnerCycles", req, opts...)
}

func (c *LedgerClient) GetAllAvailableCycles(ctx context.Context, opts ...grpc.CallOption) (*IDList, error) {
	return invoke[IDList](ctx, c, "GetAllAvailableCycles", &Empty{}, opts...)
}

func (c *LedgerClient) GetTotalCycles(ctx context.Context, opts ...grpc.CallOption) (*Count, error) {
	return invoke[Count](ctx, c, "GetTotalCycles", &Empty{}, opts...)
}

func (c *LedgerClient) RentCycle(ctx context.Context, req *RentCycleRequest, opts ...grpc.CallOption) (*Rental, error) {
	return invoke[Rental](ctx, c, "RentCycle", req, opts...)
}

func (c *LedgerClient) ReturnCycle(ctx context.Context, req *RentalIDRequest, opts ...grpc.CallOption) (*Rental, error) {
	return invoke[Rental](ctx, c, "ReturnCycle", req, opts...)
}

func (c *LedgerClient) GetRental(ctx context.Context, req *RentalIDRequest, opts ...grpc.CallOption) (*Rental, error) {
	return invoke[Rental](ctx, c, "GetRental", req, opts...)
}

func (c *LedgerClient) GetUserRentals(ctx context.Context, req *RenterRequest, opts ...grpc.CallOption) (*IDList, error) {
	return invoke[IDList](ctx, c, "GetUserRentals", req, opts...)
}

func (c *LedgerClient) GetTotalRentals(ctx context.Context, opts ...grpc.CallOption) (*Count, error) {
	return invoke[Count](ctx, c, "GetTotalRentals", &Empty{}, opts...)
}

func (c *LedgerClient) ListOverdueRentals(ctx context.Context, opts ...grpc.CallOption) (*RentalList, error) {
	return invoke[RentalList](ctx, c, "ListOverdueRentals", &Empty{}, opts...)
}

func (c *LedgerClient) ReportIssue(ctx context.Context, req *ReportIssueRequest, opts ...grpc.CallOption) (*IssueReport, error) {
	return invoke[IssueReport](ctx, c, "ReportIssue", req, opts...)
}

func (c *LedgerClient) ProcessRefund(ctx context.Context, req *RentalIDRequest, opts ...grpc.CallOption) (*IssueReport, error) {
	return invoke[IssueReport](ctx, c, "ProcessRefund", req, opts...)
}

func (c *LedgerClient) GetIssueReport(ctx context.Context, req *RentalIDRequest, opts ...grpc.CallOption) (*IssueReport, error) {
	return invoke[IssueReport](ctx, c, "GetIssueReport", req, opts...)
}

func (c *LedgerClient) ListOpenIssues(ctx context.Context, opts ...grpc.CallOption) (*IssueReportList, error) {
	return invoke[IssueReportList](ctx, c, "ListOpenIssues", &Empty{}, opts...)
}

func (c *LedgerClient) GetBalance(ctx context.Context, req *AccountRequest, opts ...grpc.CallOption) (*Balance, error) {
	return invoke[Balance](ctx, c, "GetBalance", req, opts...)
}

func (c *LedgerClient) GetRentalEntries(ctx context.Context, req *RentalIDRequest, opts ...grpc.CallOption) (*LedgerEntryList, error) {
	return invoke[LedgerEntryList](ctx, c, "GetRentalEntries", req, opts...)
}

func (c *LedgerClient) GetEscrowBalance(ctx context.Context, opts ...grpc.CallOption) (*Balance, error) {
	return invoke[Balance](ctx, c, "GetEscrowBalance", &Empty{}, opts...)
}
