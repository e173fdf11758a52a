package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// accountIDKey is the gin context key the middleware stores the verified
// account id under.
const accountIDKey = "auth.accountID"

// RequireToken is a gin middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header.
func RequireToken(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":   http.StatusUnauthorized,
				"response": "Access token required",
			})
			return
		}

		accountID, err := issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":   http.StatusUnauthorized,
				"response": "Invalid or expired token",
			})
			return
		}

		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// AccountID returns the verified account id set by RequireToken.
func AccountID(c *gin.Context) string {
	return c.GetString(accountIDKey)
}
