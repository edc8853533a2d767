// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emissionsiq/emissionsiq-backend/internal/services"
	"github.com/emissionsiq/emissionsiq-backend/internal/utils"
)

// SessionTokenHeader carries a freshly minted token back to clients
// whose first write arrived without one.
const SessionTokenHeader = "X-Session-Token"

// OptionalSession attaches the session's user id to the context when a
// valid bearer token is present. Reads never require a session.
func OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := parseBearerToken(c); claims != nil {
			c.Set("user_id", claims.UserID)
		}
		c.Next()
	}
}

// SessionOnWrite implements the ambient-identity policy: a write with a
// valid token uses it, and a write without one gets a fresh anonymous
// session created on the spot. The minted token is returned via the
// X-Session-Token response header so the client can keep it.
func SessionOnWrite(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := parseBearerToken(c); claims != nil {
			c.Set("user_id", claims.UserID)
			c.Next()
			return
		}

		session, err := sessionService.CreateAnonymousSession(c.Request.Context())
		if err != nil {
			utils.InternalErrorResponse(c, "failed to establish session")
			c.Abort()
			return
		}

		c.Header(SessionTokenHeader, session.Token)
		c.Set("user_id", session.User.ID.String())
		c.Next()
	}
}

// SessionRequired rejects requests without a valid token. Used for the
// profile surface where creating a throwaway session makes no sense.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := parseBearerToken(c)
		if claims == nil {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

func parseBearerToken(c *gin.Context) *utils.SessionClaims {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}

	claims, err := utils.ValidateSessionToken(parts[1])
	if err != nil {
		return nil
	}
	return claims
}
