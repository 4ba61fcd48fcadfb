package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tasktracker/internal/model"
	"tasktracker/internal/response"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	UserIDKey    = "userID"
	SessionIDKey = "sessionID"
	RoleKey      = "role"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Identity, error)
}

// AuthMiddleware admits a request only when its bearer token is valid and the
// session it names still exists. Every rejection answers 401 "Invalid token".
func AuthMiddleware(authenticator Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortInvalidToken(c)
			return
		}

		identity, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidToken),
				errors.Is(err, service.ErrUserNotFound),
				errors.Is(err, service.ErrSessionNotFound):
				logger.Warn("authentication rejected", "reason", err.Error(), "path", c.FullPath())
				abortInvalidToken(c)
			default:
				logger.Error("authentication failed", "error", err)
				response.Abort(c, http.StatusInternalServerError, "Internal server error", gin.H{"error": err.Error()})
			}
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(SessionIDKey, identity.SessionID)
		c.Set(RoleKey, identity.Role)
		c.Next()
	}
}

// RequireRole lets through only identities with the given role. It must run after AuthMiddleware.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if got, _ := c.Get(RoleKey); got != role {
			response.Abort(c, http.StatusForbidden, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the user id attached by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// CurrentSessionID returns the session id attached by AuthMiddleware.
func CurrentSessionID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(SessionIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortInvalidToken(c *gin.Context) {
	response.Abort(c, http.StatusUnauthorized, "Invalid token", nil)
}
