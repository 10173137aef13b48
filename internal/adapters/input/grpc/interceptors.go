package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// UnaryLoggingInterceptor logs every unary call with its status code and
// elapsed time.
func UnaryLoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		startedAt := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("elapsed", time.Since(startedAt)),
		}
		if p, ok := peer.FromContext(ctx); ok {
			fields = append(fields, zap.String("remote", p.Addr.String()))
		}

		switch code {
		case codes.OK, codes.NotFound, codes.Canceled:
			log.Debug("grpc: call done", fields...)
		case codes.InvalidArgument:
			log.Warn("grpc: call rejected", append(fields, zap.Error(err))...)
		default:
			log.Error("grpc: call failed", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}
