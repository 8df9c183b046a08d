package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// AuthMiddleware rejects requests without a valid Bearer token and puts
// user_id and username into the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, username, err := identityFromHeader(c, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		c.Set("user_id", uid)
		c.Set("username", username)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the identity when a valid token is present
// and lets anonymous requests pass through untouched.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, username, err := identityFromHeader(c, secret)
		if err == nil {
			c.Set("user_id", uid)
			c.Set("username", username)
		}
		c.Next()
	}
}

func identityFromHeader(c *gin.Context, secret string) (int64, string, error) {
	header := c.GetHeader("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return 0, "", fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid claims")
	}

	uidF, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("missing user_id claim")
	}
	username, _ := claims["username"].(string)

	return int64(uidF), username, nil
}
