package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"utmattribution/api/utils"
)

// AuthCookieName holds the admin session token.
const AuthCookieName = "jwt_token"

// AuthRequired guards the settings endpoints. A matching X-API-KEY header bypasses
// the token check.
func AuthRequired(jwtSecret []byte, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey != "" {
			given := c.GetHeader("X-API-KEY")
			if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) == 1 {
				c.Next()
				return
			}
		}
		tokenString, err := c.Cookie(AuthCookieName)
		if err != nil || tokenString == "" {
			tokenString = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			if tokenString == "" {
				log.Debug("AuthRequired: No JWT token found in cookie or header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
				return
			}
		}
		claims, err := utils.ValidateJWT(tokenString, jwtSecret)
		if err != nil {
			log.Warnf("AuthRequired: Invalid JWT token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)

		log.Debugf("AuthRequired: User authenticated - ID: %d, Email: %s", claims.UserID, claims.Email)
		c.Next()
	}
}
