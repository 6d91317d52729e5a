package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the host site's front end to call the API with cookies.
func CORSMiddleware(origin string) gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins: []string{origin},
		AllowMethods: []string{
			"GET", "POST", "PUT", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding",
			"Authorization", "X-API-KEY", "X-CSRF-Token", "X-Requested-With", "Cache-Control",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(config)
}
