package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"cyclerent-ledger/internal/api/grpc/interceptor"
	"cyclerent-ledger/internal/metrics"
	"cyclerent-ledger/internal/security"
)

// Server bundles the gRPC server with its health service so callers can
// flip serving status during shutdown.
type Server struct {
	*grpc.Server
	Health *health.Server
}

// NewServer wires the LedgerService with authentication, metrics and error
// mapping, and registers the standard health service.
func NewServer(handler LedgerServiceServer, tm security.TokenManager, m *metrics.Metrics, opts ...grpc.ServerOption) *Server {
	authInterceptor := interceptor.NewAuthInterceptor(tm)
	opts = append(opts, grpc.ChainUnaryInterceptor(
		authInterceptor.Unary(),
		interceptor.Errors(),
		interceptor.Metrics(m),
	))

	s := grpc.NewServer(opts...)
	RegisterLedgerServiceServer(s, handler)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Register reflection service for grpcurl
	reflection.Register(s)

	return &Server{Server: s, Health: hs}
}

// Shutdown marks every service as not serving and drains in-flight calls.
func (s *Server) Shutdown() {
	s.Health.Shutdown()
	s.GracefulStop()
}
