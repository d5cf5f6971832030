// Package grpcsniff exposes a sniff.Policy over gRPC so remote build agents
// can gate on the same policy as the local CLI.
package grpcsniff

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/charsniff/sniff"
)

// Server validates request bytes against a fixed policy. The policy is
// immutable, so one Server handles concurrent RPCs without locking.
type Server struct {
	UnimplementedSnifferServer
	Policy *sniff.Policy
}

func (s *Server) Validate(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	if s == nil || s.Policy == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing policy")
	}
	ok, err := sniff.Validate(in.GetValue(), s.Policy)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.Bool(ok), nil
}

func (s *Server) DetectEOL(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	if s == nil || s.Policy == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing policy")
	}
	text, err := s.Policy.Decode(in.GetValue())
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(sniff.DetectFirstEOL(text).String()), nil
}
