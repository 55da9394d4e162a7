package middleware

import "context"

// contextKey is a private type for context keys defined in this package.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	actorIDKey   = contextKey("actorID")
)

// GetActorIDFromCtx retrieves the authenticated account ID from the context.
// It returns the ID and a boolean indicating if it was found.
func GetActorIDFromCtx(ctx context.Context) (string, bool) {
	v := ctx.Value(actorIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
