// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxaDeveloper/e-commerce-task/internal/session"
)

// AuthRequired ensures the gateway holds an authenticated session. The token
// is never verified locally; the remote backend stays authoritative and a 401
// from it forces the session out regardless of this guard.
func AuthRequired(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sess.CurrentUser()
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		c.Set("user_email", user.Email)
		c.Set("is_admin", user.IsAdmin())

		c.Next()
	}
}

// AdminRequired ensures the resolved session role is admin. This is an
// advisory gate over locally derived identity; the backend still enforces
// its own authorization.
func AdminRequired(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sess.CurrentUser()
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
