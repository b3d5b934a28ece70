package ledger

import (
	"context"
	"time"
)

// Authorizer answers the engine's require-auth checks. RequireAuth returns
// nil only when the calling context is authorized to act as addr; any other
// outcome should be ErrUnauthorized.
type Authorizer interface {
	RequireAuth(ctx context.Context, addr Address) error
}

type principalKey struct{}

// WithPrincipal marks ctx as authorized for addr. Hosts call this after
// their own authentication (JWT, signature check) has established the caller.
func WithPrincipal(ctx context.Context, addr Address) context.Context {
	return context.WithValue(ctx, principalKey{}, addr)
}

// PrincipalFrom reports the principal placed on ctx by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Address, bool) {
	addr, ok := ctx.Value(principalKey{}).(Address)
	return addr, ok
}

// ContextAuthorizer authorizes exactly the principal carried on the context.
type ContextAuthorizer struct{}

func (ContextAuthorizer) RequireAuth(ctx context.Context, addr Address) error {
	p, ok := PrincipalFrom(ctx)
	if !ok || p != addr {
		return ErrUnauthorized
	}
	return nil
}

// Clock supplies the ledger timestamp in whole unix seconds. All duration
// math (campaign end times, last-updated stamps) uses this clock, never the
// wall clock directly.
type Clock func() uint64

func unixNow() uint64 { return uint64(time.Now().Unix()) }
