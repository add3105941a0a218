package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys set by this package. Using a
// custom type prevents collisions with other packages.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
)

// GetUserIDFromContext retrieves the authenticated collaborator ID from the
// Gin context. It returns the ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		if id, ok := v.(string); ok {
			return id, true
		}
		return "", false
	}
	// check the request context as well; the auth middleware stores it there
	// for code that only sees a context.Context
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id, true
		}
	}
	return "", false
}

// GetUserIDFromCtx retrieves the authenticated collaborator ID from a plain
// context.Context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	if v := ctx.Value(userIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id, true
		}
	}
	return "", false
}
