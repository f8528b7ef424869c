package middlewares

import (
	"github.com/gin-gonic/gin"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// inline data: images are how every picture on the site is stored
		c.Header("Content-Security-Policy", "default-src 'self'; img-src 'self' data:")

		c.Next()
	}
}
