package jwtmw

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
)

// AuthRequired returns a Gin middleware that validates the session cookie
// and restricts access to authenticated admins only. Every request is a
// stateless verification; there is no server-side session table.
func AuthRequired(codec *Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Server misconfiguration (JWT_SECRET not set)
		if !codec.Configured() {
			slog.Error("session secret missing; rejecting authenticated route", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, ok := codec.Verify(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ContextUserID, id.Subject)
		c.Set(ContextUserEmail, id.Email)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthRequired.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	sub := c.GetString(ContextUserID)
	email := c.GetString(ContextUserEmail)
	if sub == "" || email == "" {
		return Identity{}, false
	}
	return Identity{Subject: sub, Email: email}, true
}
