package http

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware checks the X-Admin-Token header against requiredToken.
func AdminAuthMiddleware(requiredToken string) gin.HandlerFunc {
	// No configured token means nobody is an admin.
	if requiredToken == "" {
		log.Println("X_ADMIN_TOKEN not set, admin routes are disabled")
	}

	return func(c *gin.Context) {
		suppliedToken := c.GetHeader("X-Admin-Token")

		if suppliedToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Admin token required"})
			return
		}

		if requiredToken == "" || subtle.ConstantTimeCompare([]byte(suppliedToken), []byte(requiredToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: Invalid admin token"})
			return
		}

		c.Next()
	}
}

// SecurityHeadersMiddleware adds basic, sensible security headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevents clickjacking
		c.Header("X-Frame-Options", "DENY")
		// Prevents MIME-type sniffing
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// htmx and Tailwind come from CDNs; htmx attributes need inline handlers.
		csp := "default-src 'self';"
		csp += " script-src 'self' 'unsafe-inline' unpkg.com cdn.jsdelivr.net;"
		csp += " style-src 'self' 'unsafe-inline' cdn.tailwindcss.com;"
		csp += " connect-src 'self' ws: wss:;"
		c.Header("Content-Security-Policy", csp)

		c.Next()
	}
}
