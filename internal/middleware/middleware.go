package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/SafalBhandari12/multi-vendor-backend/internal/cache"
	jwtlib "github.com/SafalBhandari12/multi-vendor-backend/internal/lib/jwt"
	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// RequireAuth verifies the bearer access token and stores the subject and role
// in the request context. All failure causes collapse to a generic 401.
func RequireAuth(issuer *jwtlib.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := extractTokenFromHeader(c.GetHeader("Authorization"))
		if accessToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		claims, err := issuer.VerifyAccessToken(accessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserRole, claims.Role)

		c.Next()
	}
}

// RateLimit caps requests per client IP within a fixed window.
func RateLimit(limiter *cache.RateLimiter, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := prefix + ":" + c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key, limit, window) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}

func extractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
