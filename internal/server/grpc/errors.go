package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps an error kind to a gRPC status. Server side failures get an
// opaque message; the cause is logged, not sent.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, "not the owner")
	case errors.Is(err, common.ErrCannotDecryptToken):
		return status.Error(codes.Unauthenticated, "invalid or missing token")
	case errors.Is(err, common.ErrWrongPassword):
		return status.Error(codes.Unauthenticated, "wrong email or password")
	case errors.Is(err, common.ErrDuplicateAccount):
		return status.Error(codes.AlreadyExists, "account already exists")
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, services.ErrGeneratorUnavailable):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
