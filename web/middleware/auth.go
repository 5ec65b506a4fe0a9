package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"artstore/web/db"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RequireAuth validates the bearer token and loads the caller into the
// context as "user".
func RequireAuth(c *gin.Context) {
	user, ok := authenticate(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
		return
	}

	c.Set("user", user)
	c.Next()
}

// AdminAuth is RequireAuth plus the admin capability check.
func AdminAuth(c *gin.Context) {
	user, ok := authenticate(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
		return
	}

	if user.Role != "admin" && user.Role != "super_admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden. Admin access required."})
		c.Abort()
		return
	}

	c.Set("user", user)
	c.Next()
}

func authenticate(c *gin.Context) (db.User, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return db.User{}, false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" {
		return db.User{}, false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		return db.User{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return db.User{}, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Now().Unix() > int64(exp) {
		return db.User{}, false
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return db.User{}, false
	}

	var user db.User
	db.DB.First(&user, uint(sub))
	if user.ID == 0 {
		return db.User{}, false
	}

	return user, true
}
