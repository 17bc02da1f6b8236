package middleware

import (
	"net/http"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/auth"
	"github.com/Vidhyalakshmi16/svm-mobiles/response"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// ValidateToken rejects requests without a valid session token and stores
// the caller's identity in the context. The token is read from the
// Authorization header, with or without the Bearer prefix, or from the
// token query parameter for websocket clients.
func ValidateToken(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			response.Message(c, http.StatusUnauthorized, "Authorization header is missing")
			c.Abort()
			return
		}

		identity, err := tokens.Parse(tokenString)
		if err != nil {
			response.Message(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.UserID)
		c.Next()
	}
}

func bearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// RequireAdmin must run after ValidateToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsAdmin() {
			response.Message(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by ValidateToken, or the zero
// Identity on unauthenticated routes.
func CurrentIdentity(c *gin.Context) auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}
	}
	identity, _ := v.(auth.Identity)
	return identity
}
