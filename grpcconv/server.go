package grpcconv

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/qblxml/qbl"
)

// Server runs the qbl pipeline for remote callers.
type Server struct {
	UnimplementedConverterServer

	// MaxInputBytes rejects larger payloads when non-zero.
	MaxInputBytes int
}

func (s *Server) ToXML(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return s.convert(ctx, qbl.FileTypeQbl, in)
}

func (s *Server) FromXML(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return s.convert(ctx, qbl.FileTypeXML, in)
}

func (s *Server) convert(ctx context.Context, from qbl.FileType, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing server")
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	b := in.GetValue()
	if s.MaxInputBytes > 0 && len(b) > s.MaxInputBytes {
		return nil, status.Errorf(codes.ResourceExhausted, "input of %d bytes exceeds limit of %d", len(b), s.MaxInputBytes)
	}
	out, err := qbl.Convert(from, b)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(out), nil
}
