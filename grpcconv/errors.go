package grpcconv

import (
	"errors"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/qblxml/qbl"
)

// errorDomain scopes the ErrorInfo details this service attaches to failures.
const errorDomain = "qblxml.xdao.co"

// toStatus maps a pipeline error onto a gRPC status. Structured errors keep
// their Kind and RuleID in a google.rpc.ErrorInfo detail.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var e *qbl.Error
	if !errors.As(err, &e) {
		return status.Error(codes.Internal, err.Error())
	}

	code := codes.Internal
	switch e.Kind {
	case qbl.KindFormat, qbl.KindCrypto, qbl.KindUnsupportedExtension:
		code = codes.InvalidArgument
	}
	st := status.New(code, e.RuleID+": "+e.Error())
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   e.RuleID,
		Domain:   errorDomain,
		Metadata: map[string]string{"kind": string(e.Kind)},
	})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}

// fromStatus reverses toStatus. Errors without our ErrorInfo are returned unchanged.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	info := errorInfo(st)
	if info == nil {
		return err
	}
	return &qbl.Error{
		Kind:    qbl.Kind(info.GetMetadata()["kind"]),
		RuleID:  info.GetReason(),
		Message: strings.TrimPrefix(st.Message(), info.GetReason()+": "),
	}
}

func errorInfo(st *status.Status) *errdetails.ErrorInfo {
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return info
		}
	}
	return nil
}
