package requestcontext

import (
	"context"

	"nftmarket/pkg/domain"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	callerKey
)

// WithRequestID stores the correlation ID for the current request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the correlation ID, or "" when outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithCaller stores the authenticated account for the current request.
func WithCaller(ctx context.Context, account domain.Account) context.Context {
	return context.WithValue(ctx, callerKey, account)
}

// Caller returns the authenticated account, zero when unauthenticated.
func Caller(ctx context.Context) domain.Account {
	account, _ := ctx.Value(callerKey).(domain.Account)
	return account
}
