package identity

import (
	"context"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"go.uber.org/zap"
)

type ctxKey int8

const (
	requestContextKey ctxKey = iota
	loggerKey
)

// RequestContext is what a handler knows about the caller.
type RequestContext struct {
	Principal *model.User
	Logger    *zap.SugaredLogger
}

func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// FromContext never returns nil; requests that skipped the middleware are
// anonymous with a no-op logger.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
		return rc
	}

	return &RequestContext{Logger: zap.NewNop().Sugar()}
}

// WithLogger stores the request-scoped logger picked up by Middleware.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}
