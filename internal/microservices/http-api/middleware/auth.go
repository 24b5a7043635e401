package middleware

import (
	"context"
	"net/http"
	"strings"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/permission"
	"reviewhub/internal/shared"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Authenticator resolves a bearer token to its current user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware identifies the actor of a request. Requests without an
// Authorization header continue as anonymous; a header that is present but
// malformed or carries an invalid token is rejected with 401 on every route.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(actorKey, permission.Actor{})
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if shared.KindOf(err) == shared.KindAuthentication {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			LoggerFrom(c).Error("authenticate request", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(actorKey, permission.ActorFromUser(user))
		c.Next()
	}
}

// RequireAuth rejects anonymous actors before the handler runs.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": shared.ErrUnauthenticated.Message})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the actor set by AuthMiddleware, anonymous if none.
func ActorFrom(c *gin.Context) permission.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(permission.Actor); ok {
			return actor
		}
	}
	return permission.Actor{}
}

// SetActor is used by tests that bypass token handling.
func SetActor(actor permission.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(actorKey, actor)
		c.Next()
	}
}
