package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"status": "error", "message": message})
}

// AuthMiddleware validates the bearer token, loads the account into the
// context under "user" and rejects blocked accounts.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Please login for access")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			utils.LogError("Invalid token: %v", err)
			abort(c, http.StatusUnauthorized, "Please login for access")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, http.StatusUnauthorized, "Invalid token claims")
			return
		}
		userIDClaim, ok := claims["user_id"].(float64)
		if !ok {
			abort(c, http.StatusUnauthorized, "Please login for access")
			return
		}

		var user models.User
		if err := config.DB.First(&user, uint(userIDClaim)).Error; err != nil {
			utils.LogError("Token user %d not found: %v", uint(userIDClaim), err)
			abort(c, http.StatusUnauthorized, "User not found")
			return
		}
		if user.IsBlocked {
			utils.LogError("Blocked user attempted access: %d", user.ID)
			abort(c, http.StatusForbidden, "Account is blocked")
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// AdminMiddleware requires the context user to be an admin. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			abort(c, http.StatusUnauthorized, "User not found in context")
			return
		}

		user, ok := userVal.(models.User)
		if !ok {
			abort(c, http.StatusInternalServerError, "Invalid user type")
			return
		}
		if !user.IsAdmin {
			utils.LogError("Non-admin user attempted admin access: %d", user.ID)
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}

		c.Next()
	}
}
