package middleware

import (
	"context"
	"strings"

	"github.com/LerianStudio/lib-commons/commons/log"
	wrapi "github.com/LerianStudio/lib-wrapi-go"
	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// UnaryServerInterceptor creates a gRPC unary server interceptor that propagates the
// x-request-id metadata the same way RequestID does for HTTP
func UnaryServerInterceptor(l log.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		_ *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx, id := grpcRequestID(ctx, l)

		if err := grpc.SetHeader(ctx, metadata.Pairs(grpcRequestIDKey(), id)); err != nil && l != nil {
			l.Debugf("Could not set request ID header: %v", err)
		}

		return handler(ctx, req)
	}
}

// StreamServerInterceptor creates a gRPC stream server interceptor that propagates the
// x-request-id metadata to the stream context
func StreamServerInterceptor(l log.Logger) grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		_ *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx, id := grpcRequestID(ss.Context(), l)

		if err := ss.SetHeader(metadata.Pairs(grpcRequestIDKey(), id)); err != nil && l != nil {
			l.Debugf("Could not set request ID header: %v", err)
		}

		return handler(srv, &contextStream{ServerStream: ss, ctx: ctx})
	}
}

type contextStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *contextStream) Context() context.Context {
	return s.ctx
}

func grpcRequestIDKey() string {
	return strings.ToLower(cn.RequestIDHeader)
}

func grpcRequestID(ctx context.Context, l log.Logger) (context.Context, string) {
	var incoming string

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(grpcRequestIDKey()); len(values) > 0 {
			incoming = values[0]
		}
	}

	id := requestID(incoming, l)

	return wrapi.ContextWithRequestID(ctx, id), id
}
