package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	jwtpkg "innercloset/gatekeeper/pkg/jwt"
	"innercloset/gatekeeper/pkg/response"
)

const ContextKeyUserClaims = "user_claims"

// Session attaches identity-provider claims when a valid bearer token is
// present. Anonymous requests pass through untouched.
func Session(verifier *jwtpkg.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		if claims, err := verifier.Validate(parts[1]); err == nil {
			c.Set(ContextKeyUserClaims, claims)
		}
		c.Next()
	}
}

// RequireSession rejects requests that Session did not authenticate.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionClaims(c); !ok {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func SessionClaims(c *gin.Context) (*jwtpkg.SessionClaims, bool) {
	v, exists := c.Get(ContextKeyUserClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwtpkg.SessionClaims)
	return claims, ok
}
