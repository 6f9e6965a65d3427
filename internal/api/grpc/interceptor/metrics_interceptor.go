package interceptor

import (
	"context"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/metrics"
)

// Metrics records every call by method and ledger result code. It must
// run inside Errors so it still sees the ledger error.
func Metrics(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.ObserveRequest("grpc", path.Base(info.FullMethod), resultCode(err), time.Since(start))
		return resp, err
	}
}

func resultCode(err error) string {
	if err == nil {
		return "OK"
	}
	if st, ok := status.FromError(err); ok {
		return st.Code().String()
	}
	return string(domain.CodeOf(err))
}
