package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	orderIDKey   ctxKey = "order_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// WithOrderID tags the context so every log line emitted while handling
// this order carries its id.
func WithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, orderIDKey, orderID)
}

func OrderIDFrom(ctx context.Context) string {
	if v := ctx.Value(orderIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// FromCtx returns a logger carrying the request and order ids found in ctx.
func FromCtx(ctx context.Context) *zap.Logger {
	log := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		log = log.With(zap.String("request_id", reqID))
	}
	if orderID := OrderIDFrom(ctx); orderID != "" {
		log = log.With(zap.String("order_id", orderID))
	}
	return log
}
