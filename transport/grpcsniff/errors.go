package grpcsniff

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/charsniff/sniff"
)

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case sniff.IsKind(err, sniff.KindDecode):
		return status.Error(codes.InvalidArgument, err.Error())
	case sniff.IsKind(err, sniff.KindConfig):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// mapRPC turns a status error back into the sniff taxonomy where one applies.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return &sniff.Error{Kind: sniff.KindDecode, RuleID: "SNIFF-DEC-001", Message: st.Message(), Cause: err}
	case codes.FailedPrecondition:
		return &sniff.Error{Kind: sniff.KindConfig, RuleID: "SNIFF-RPC-001", Message: st.Message(), Cause: err}
	default:
		return err
	}
}
