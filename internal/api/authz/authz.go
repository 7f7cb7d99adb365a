// Package authz carries the authenticated caller through request contexts
// and checks role requirements.
package authz

import (
	"context"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/identity"
)

var (
	ErrUnauthenticated = apperror.Unauthenticated("authentication required")
	ErrForbidden       = apperror.Forbidden("you are not allowed to perform this action")
)

type callerContextKey struct{}

func ContextWithCaller(ctx context.Context, caller identity.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller stored in ctx. ok is false when ctx
// is nil, carries no caller, or carries one without a user id.
func CallerFromContext(ctx context.Context) (identity.Caller, bool) {
	if ctx == nil {
		return identity.Caller{}, false
	}
	caller, ok := ctx.Value(callerContextKey{}).(identity.Caller)
	if !ok || !caller.Valid() {
		return identity.Caller{}, false
	}
	return caller, true
}

// RequireCaller returns the authenticated caller or ErrUnauthenticated.
func RequireCaller(ctx context.Context) (identity.Caller, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return identity.Caller{}, ErrUnauthenticated
	}
	return caller, nil
}

// RequireRole additionally checks that the caller holds one of roles.
func RequireRole(ctx context.Context, roles ...identity.Role) (identity.Caller, error) {
	caller, err := RequireCaller(ctx)
	if err != nil {
		return identity.Caller{}, err
	}
	for _, role := range roles {
		if caller.Role == role {
			return caller, nil
		}
	}
	return identity.Caller{}, ErrForbidden
}
