package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"granaia/internal/auth"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	CtxUserID    = "userID"
	CtxEmail     = "email"
	CtxRemotejid = "remotejid"
	CtxUser      = "currentUser"
)

// RequireAuth extracts and verifies the bearer token, storing the claimed
// user id, email and remotejid in the context. It only checks the signature
// and expiry; looking the user up is a separate service call made by
// whoever needs the record. Every failure is the same generic 401 with a
// WWW-Authenticate hint, never revealing which check failed.
func RequireAuth(tokens *auth.TokenMaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c)
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRemotejid, claims.Remotejid)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Não foi possível validar as credenciais",
	})
}
