package testutil

import (
	"context"

	"github.com/aulalivre/aulalivre/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, types.SystemUserID)
	ctx = types.SetUserRole(ctx, types.UserRoleAdmin)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
