package interceptor

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/logger"
)

var grpcCodes = map[domain.ErrorCode]codes.Code{
	domain.CodeInvalidInput:     codes.InvalidArgument,
	domain.CodeInvalidDuration:  codes.InvalidArgument,
	domain.CodePaymentMismatch:  codes.InvalidArgument,
	domain.CodeSelfRental:       codes.InvalidArgument,
	domain.CodeNotFound:         codes.NotFound,
	domain.CodeNotOwner:         codes.PermissionDenied,
	domain.CodeNotRenter:        codes.PermissionDenied,
	domain.CodeNotAdmin:         codes.PermissionDenied,
	domain.CodeCycleUnavailable: codes.FailedPrecondition,
	domain.CodeAlreadyReturned:  codes.FailedPrecondition,
	domain.CodeAlreadyReported:  codes.AlreadyExists,
	domain.CodeAlreadyRefunded:  codes.FailedPrecondition,
	domain.CodeDisputeOpen:      codes.FailedPrecondition,
}

// ToStatus converts a ledger error into a gRPC status error. The ledger code
// leads the message so clients can branch on it.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	code := domain.CodeOf(err)
	if c, ok := grpcCodes[code]; ok {
		return status.Errorf(c, "%s: %v", code, err)
	}
	logger.Error("Internal ledger error", "error", err)
	return status.Error(codes.Internal, string(domain.CodeInternal)+": internal error")
}

// Errors maps handler errors to gRPC status codes.
func Errors() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, ToStatus(err)
		}
		return resp, nil
	}
}
