package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware echoes the caller's Origin and allows credentials, so
// the cookie-based session works from any frontend host.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "X-Requested-With",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
