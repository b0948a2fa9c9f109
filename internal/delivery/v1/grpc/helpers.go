package grpc

import (
	"errors"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{e.ErrMissingFields, codes.InvalidArgument},
	{e.ErrInvalidID, codes.InvalidArgument},
	{e.ErrStatusBadRequest, codes.InvalidArgument},
	{e.ErrProductNotFound, codes.NotFound},
	{e.ErrCategoryNotFound, codes.NotFound},
	{e.ErrUnauthenticated, codes.Unauthenticated},
	{e.ErrForbidden, codes.PermissionDenied},
}

// GRPCErrorResponse переводит доменную ошибку в статус gRPC. Неизвестные ошибки скрываются за Internal.
func GRPCErrorResponse(err error) error {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return status.Error(c.code, c.err.Error())
		}
	}

	return status.Error(codes.Internal, e.ErrInternalServerError.Error())
}
