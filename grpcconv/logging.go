package grpcconv

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// UnaryServerLogger logs one entry per RPC: method, payload sizes, duration
// and, on failure, the status code and RuleID.
func UnaryServerLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
		}
		if in, ok := req.(*wrapperspb.BytesValue); ok {
			fields = append(fields, zap.Int("bytes_in", len(in.GetValue())))
		}
		if err != nil {
			st := status.Convert(err)
			fields = append(fields, zap.String("code", st.Code().String()))
			if ei := errorInfo(st); ei != nil {
				fields = append(fields, zap.String("rule_id", ei.GetReason()))
			}
			logger.Warn("conversion failed", fields...)
			return resp, err
		}
		if out, ok := resp.(*wrapperspb.BytesValue); ok {
			fields = append(fields, zap.Int("bytes_out", len(out.GetValue())))
		}
		logger.Info("conversion served", fields...)
		return resp, nil
	}
}
