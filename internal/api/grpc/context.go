package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// CallerMetadataKey carries the verified caller identity. The auth
// interceptor overwrites whatever the client sent under this key.
const CallerMetadataKey = "caller-identity"

// GetCallerFromContext extracts the caller identity from the gRPC metadata.
func GetCallerFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	callers := md.Get(CallerMetadataKey)
	if len(callers) == 0 || callers[0] == "" {
		return "", status.Errorf(codes.Unauthenticated, "caller identity is not provided in metadata")
	}
	return callers[0], nil
}
