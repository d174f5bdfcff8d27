package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// resolveUser pulls the token from the Authorization header or the session
// cookie and loads the matching user. Returns nil when the request carries no
// valid identity.
func resolveUser(c *gin.Context) *User {
	tokenString := ""

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie(tokenCookie); err == nil {
		tokenString = cookie
	}
	if tokenString == "" {
		return nil
	}

	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil
	}

	var user User
	if err := DB.First(&user, claims.UserID).Error; err != nil {
		return nil
	}
	return &user
}

// AuthMiddleware rejects the whole request when no authenticated user can be
// resolved. Handlers behind it may assume currentUser succeeds.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when present but never aborts; the
// home page shows login state either way.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c); user != nil {
			c.Set("user", user)
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
