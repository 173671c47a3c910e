package grpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func invalidArg(format string, args ...any) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf(format, args...))
}

func addressArg(in *structpb.Struct, name string) (addrx.Address, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return "", invalidArg("%s is required", name)
	}
	addr, err := addrx.Parse(v.GetStringValue())
	if err != nil {
		return "", invalidArg("%s: %v", name, err)
	}
	return addr, nil
}

// intArg reads an integer sent either as a JSON number or as a decimal
// string. A missing field reads as def.
func intArg(in *structpb.Struct, name string, def int64) (int64, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return def, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return 0, invalidArg("%s must be an integer", name)
		}
		return int64(f), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(k.StringValue, 10, 64)
		if err != nil {
			return 0, invalidArg("%s must be an integer", name)
		}
		return n, nil
	default:
		return 0, invalidArg("%s must be an integer", name)
	}
}

func boolArg(in *structpb.Struct, name string) (bool, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return false, nil
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, invalidArg("%s must be a boolean", name)
	}
	return b.BoolValue, nil
}

// toStruct renders v through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func emptyStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}
}

// toStatus maps engine errors to gRPC statuses. Messages of known kinds
// are returned to the caller; anything else is reported as internal.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrAuthorization):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrState):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrLiquidity):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, common.ErrNoOp):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
