package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutrifit/nutrifit-backend/internal/logger"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"

	// DevUserHeader names the user when no Firebase client is configured.
	DevUserHeader = "X-User-Id"
)

// RequireUser rejects requests without an authenticated user. With a nil
// verifier the user id is taken from the X-User-Id header instead of a
// Firebase ID token; use that only for development and tests.
func RequireUser(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uid string
		if verifier == nil {
			uid = strings.TrimSpace(c.GetHeader(DevUserHeader))
		} else {
			token := extractToken(c)
			if token == "" {
				abortUnauthorized(c, "missing authorization token")
				return
			}
			decoded, err := verifier.VerifyIDToken(c.Request.Context(), token)
			if err != nil {
				logger.New(c.Request.Context()).LogWarnf("require_user", "token rejected: %v", err)
				abortUnauthorized(c, "invalid token")
				return
			}
			uid = decoded.UID
			if email, ok := decoded.Claims["email"].(string); ok {
				c.Set(CtxEmail, email)
			}
		}

		if uid == "" {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Set(CtxFirebaseUID, uid)
		c.Next()
	}
}

// UserFirebaseUID returns the user id set by RequireUser.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearer := c.GetHeader("Authorization")
	if len(bearer) > 7 && strings.EqualFold(bearer[:7], "Bearer ") {
		return strings.TrimSpace(bearer[7:])
	}
	return ""
}
