package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Status detail keys. The detail carries the progression code, which has no gRPC equivalent.
const (
	detailCodeKey = "code"
	detailMetaKey = "meta"
)

var grpcCodes = map[Code]codes.Code{
	CodeOK:                 codes.OK,
	CodeInvalidArgument:    codes.InvalidArgument,
	CodeNotFound:           codes.NotFound,
	CodeAlreadyExists:      codes.AlreadyExists,
	CodeFailedPrecondition: codes.FailedPrecondition,
	CodeAborted:            codes.Aborted,
	CodeInternal:           codes.Internal,
	CodeUnavailable:        codes.Unavailable,
	CodeDataLoss:           codes.DataLoss,

	CodeInsufficientPoints: codes.ResourceExhausted,
	CodeInsufficientMana:   codes.ResourceExhausted,
	CodeRankCapReached:     codes.FailedPrecondition,
	CodeNothingAllocated:   codes.FailedPrecondition,
	CodeOnCooldown:         codes.FailedPrecondition,
	CodeNotLearned:         codes.FailedPrecondition,
	CodeActivationFailed:   codes.Aborted,
	CodeUnknownTarget:      codes.InvalidArgument,
}

// GRPCCode maps a code onto the gRPC status code clients see. Progression codes fold
// into the closest generic status.
func (c Code) GRPCCode() codes.Code {
	if gc, ok := grpcCodes[c]; ok {
		return gc
	}
	return codes.Unknown
}

// fromGRPCCode maps a status without details back to a generic code
func fromGRPCCode(gc codes.Code) Code {
	switch gc {
	case codes.OK:
		return CodeOK
	case codes.InvalidArgument, codes.OutOfRange:
		return CodeInvalidArgument
	case codes.NotFound:
		return CodeNotFound
	case codes.AlreadyExists:
		return CodeAlreadyExists
	case codes.FailedPrecondition:
		return CodeFailedPrecondition
	case codes.Aborted:
		return CodeAborted
	case codes.Unavailable, codes.DeadlineExceeded:
		return CodeUnavailable
	case codes.DataLoss:
		return CodeDataLoss
	default:
		return CodeInternal
	}
}

// ToGRPCError converts err into a status error for the server interceptor. An *Error keeps
// its code and metadata in a Struct detail so FromGRPCError can restore them.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var e *Error
	if !errors.As(err, &e) {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(e.Code.GRPCCode(), e.Message)
	if detail, derr := encodeDetail(e); derr == nil {
		if withDetail, werr := st.WithDetails(detail); werr == nil {
			st = withDetail
		}
	}
	return st.Err()
}

// FromGRPCError converts a status error received by a client back into an *Error
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	out := &Error{Code: fromGRPCCode(st.Code()), Message: st.Message()}
	for _, d := range st.Details() {
		if detail, ok := d.(*structpb.Struct); ok {
			decodeDetail(out, detail)
			break
		}
	}
	return out
}

func encodeDetail(e *Error) (*structpb.Struct, error) {
	fields := map[string]any{detailCodeKey: string(e.Code)}
	if len(e.Meta) > 0 {
		meta := make(map[string]any, len(e.Meta))
		for k, v := range e.Meta {
			meta[k] = detailValue(v)
		}
		fields[detailMetaKey] = meta
	}
	return structpb.NewStruct(fields)
}

func decodeDetail(e *Error, detail *structpb.Struct) {
	values := detail.AsMap()
	if code, ok := values[detailCodeKey].(string); ok && code != "" {
		e.Code = Code(code)
	}
	if meta, ok := values[detailMetaKey].(map[string]any); ok {
		e.Meta = meta
	}
}

// detailValue turns meta values structpb rejects, such as ready_at timestamps, into strings
func detailValue(v any) any {
	switch val := v.(type) {
	case nil, bool, string, float32, float64, int, int32, int64, uint, uint32, uint64:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
