// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the bearer-token authentication gate. Every protected
// route group mounts RequireUser, which resolves the Authorization header to
// a user exactly once per request and stores the principal in the Gin
// context. Handlers read it back via CurrentUser.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/domain"
)

const (
	// currentUserKey is the Gin context key holding the authenticated user.
	currentUserKey = "currentUser"
	// userIDKey mirrors the principal id for the logging middleware.
	userIDKey = "userID"
)

// UserAuthenticator resolves a raw bearer token to an active user.
type UserAuthenticator interface {
	Authenticate(ctx context.Context, raw string) (*domain.User, error)
}

// RequireUser authenticates the request and aborts with a business-error
// envelope when the token is missing or invalid. Failures keep the uniform
// HTTP 200 transport status; clients branch on the envelope code.
func RequireUser(a UserAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			abortBiz(c, bizerr.New(bizerr.AuthFail))
			return
		}
		u, err := a.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if be, ok := bizerr.AsError(err); ok {
				abortBiz(c, be)
				return
			}
			LoggerFrom(c).Error().Err(err).Msg("authenticate")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "internal server error",
				"data":    nil,
			})
			return
		}
		c.Set(currentUserKey, u)
		c.Set(userIDKey, u.ID)
		c.Next()
	}
}

// CurrentUser returns the principal stored by RequireUser, or nil when the
// route is unauthenticated.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
// The scheme match is case-insensitive; anything else yields "".
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// abortBiz writes a business error as the standard envelope and stops the
// chain. Mirrors handlers.failBiz, which middleware cannot import.
func abortBiz(c *gin.Context, be *bizerr.Error) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{
		"code":    be.Code,
		"message": be.Message,
		"data":    nil,
	})
}
