package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "cyclerent.ledger.v1.LedgerService"

// FullMethod returns the gRPC path of a LedgerService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// LedgerServiceServer is the server API for LedgerService.
type LedgerServiceServer interface {
	ListCycle(context.Context, *ListCycleRequest) (*Cycle, error)
	UpdateCyclePrice(context.Context, *UpdateCyclePriceRequest) (*Cycle, error)
	RemoveCycle(context.Context, *CycleIDRequest) (*Cycle, error)
	GetCycle(context.Context, *CycleIDRequest) (*Cycle, error)
	GetOwnerCycles(context.Context, *OwnerRequest) (*IDList, error)
	GetAllAvailableCycles(context.Context, *Empty) (*IDList, error)
	GetTotalCycles(context.Context, *Empty) (*Count, error)
	RentCycle(context.Context, *RentCycleRequest) (*Rental, error)
	ReturnCycle(context.Context, *RentalIDRequest) (*Rental, error)
	GetRental(context.Context, *RentalIDRequest) (*Rental, error)
	GetUserRentals(context.Context, *RenterRequest) (*IDList, error)
	GetTotalRentals(context.Context, *Empty) (*Count, error)
	ListOverdueRentals(context.Context, *Empty) (*RentalList, error)
	ReportIssue(context.Context, *ReportIssueRequest) (*IssueReport, error)
	ProcessRefund(context.Context, *RentalIDRequest) (*IssueReport, error)
	GetIssueReport(context.Context, *RentalIDRequest) (*IssueReport, error)
	ListOpenIssues(context.Context, *Empty) (*IssueReportList, error)
	GetBalance(context.Context, *AccountRequest) (*Balance, error)
	GetRentalEntries(context.Context, *RentalIDRequest) (*LedgerEntryList, error)
	GetEscrowBalance(context.Context, *Empty) (*Balance, error)
}

var _ LedgerServiceServer = (*LedgerHandler)(nil)

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req any, Resp any](method string, call func(LedgerServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		svc := srv.(LedgerServiceServer)
		if interceptor == nil {
			return call(svc, ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(svc, ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}

var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCycle", Handler: unaryHandler("ListCycle", LedgerServiceServer.ListCycle)},
		{MethodName: "UpdateCyclePrice", Handler: unaryHandler("UpdateCyclePrice", LedgerServiceServer.UpdateCyclePrice)},
		{MethodName: "RemoveCycle", Handler: unaryHandler("RemoveCycle", LedgerServiceServer.RemoveCycle)},
		{MethodName: "GetCycle", Handler: unaryHandler("GetCycle", LedgerServiceServer.GetCycle)},
		{MethodName: "GetOwnerCycles", Handler: unaryHandler("GetOwnerCycles", LedgerServiceServer.GetOwnerCycles)},
		{MethodName: "GetAllAvailableCycles", Handler: unaryHandler("GetAllAvailableCycles", LedgerServiceServer.GetAllAvailableCycles)},
		{MethodName: "GetTotalCycles", Handler: unaryHandler("GetTotalCycles", LedgerServiceServer.GetTotalCycles)},
		{MethodName: "RentCycle", Handler: unaryHandler("RentCycle", LedgerServiceServer.RentCycle)},
		{MethodName: "ReturnCycle", Handler: unaryHandler("ReturnCycle", LedgerServiceServer.ReturnCycle)},
		{MethodName: "GetRental", Handler: unaryHandler("GetRental", LedgerServiceServer.GetRental)},
		{MethodName: "GetUserRentals", Handler: unaryHandler("GetUserRentals", LedgerServiceServer.GetUserRentals)},
		{MethodName: "GetTotalRentals", Handler: unaryHandler("GetTotalRentals", LedgerServiceServer.GetTotalRentals)},
		{MethodName: "ListOverdueRentals", Handler: unaryHandler("ListOverdueRentals", LedgerServiceServer.ListOverdueRentals)},
		{MethodName: "ReportIssue", Handler: unaryHandler("ReportIssue", LedgerServiceServer.ReportIssue)},
		{MethodName: "ProcessRefund", Handler: unaryHandler("ProcessRefund", LedgerServiceServer.ProcessRefund)},
		{MethodName: "GetIssueReport", Handler: unaryHandler("GetIssueReport", LedgerServiceServer.GetIssueReport)},
		{MethodName: "ListOpenIssues", Handler: unaryHandler("ListOpenIssues", LedgerServiceServer.ListOpenIssues)},
		{MethodName: "GetBalance", Handler: unaryHandler("GetBalance", LedgerServiceServer.GetBalance)},
		{MethodName: "GetRentalEntries", Handler: unaryHandler("GetRentalEntries", LedgerServiceServer.GetRentalEntries)},
		{MethodName: "GetEscrowBalance", Handler: unaryHandler("GetEscrowBalance", LedgerServiceServer.GetEscrowBalance)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterLedgerServiceServer registers srv on s.
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}
