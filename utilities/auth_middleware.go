package utilities

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware ensures each request carries a valid bearer access token
// for a user that still exists. Every failure gets the same response so
// nothing about the token leaks. Email and role come from the stored user.
func AuthMiddleware(tokens *TokenManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		claims, err := tokens.ValidateToken(tokenStr, false)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, err := users.GetUserByID(claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if err != nil {
			Error("load user %s: %v", claims.UserID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextEmail, user.Email)
		c.Set(ContextRole, user.Role)

		c.Next()
	}
}

// AdminOnly rejects authenticated non-admins with 403. It must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(ContextRole); role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the id AuthMiddleware attached to the request.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
