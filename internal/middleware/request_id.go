package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

type ctxKey int

const (
	requestIDCtxKey ctxKey = iota
	actorCtxKey
)

// RequestID propagates the caller's X-Request-ID or mints one. The id is set
// on the gin context, on the request context and on the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, id)
}

// RequestIDFrom returns the request id stored by RequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}

// ActorFrom returns the authenticated subject, or "" for anonymous requests.
func ActorFrom(ctx context.Context) string {
	a, _ := ctx.Value(actorCtxKey).(string)
	return a
}
