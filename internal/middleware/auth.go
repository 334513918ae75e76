package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/auth"
)

const (
	// HeaderSessionToken carries the session token for non-browser
	// clients; browsers use the session cookie.
	HeaderSessionToken = "X-Session-Token"

	userIDKey = "user_id"
)

// RequireUser resolves the current user from the session cookie or
// header and aborts with 401 when there is none. Handlers behind it
// read the id with CurrentUser.
func RequireUser(sessions auth.SessionReader, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			token = c.GetHeader(HeaderSessionToken)
		}
		if token == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := sessions.UserID(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user id set by RequireUser.
func CurrentUser(c *gin.Context) (int64, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := v.(int64)
	return userID, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "please log in first",
	})
}
