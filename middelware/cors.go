package middelware

import (
	"defects-register/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ArchiveKeyHeader carries the object key of an archived export
const ArchiveKeyHeader = "X-Archive-Key"

var (
	corsAllowMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsAllowHeaders = strings.Join([]string{
		"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader,
	}, ", ")
	// the register UI reads the download name and archive key of exports
	corsExposeHeaders = strings.Join([]string{
		"Content-Disposition", ArchiveKeyHeader, RequestIDHeader,
	}, ", ")
)

// CORSMiddleware answers cross-origin requests from the register front end
type CORSMiddleware struct {
	origins []string
}

// NewCORSMiddleware creates a CORS middleware for the configured origins
func NewCORSMiddleware(cfg *models.Config) *CORSMiddleware {
	return &CORSMiddleware{origins: cfg.CORSOrigins}
}

// CORS returns a gin.HandlerFunc for handling CORS
func (m *CORSMiddleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && m.allowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// allowed matches exact origins, "*" and "*.domain" subdomain wildcards
func (m *CORSMiddleware) allowed(origin string) bool {
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}

	for _, pattern := range m.origins {
		switch {
		case pattern == "*", pattern == origin:
			return true
		case strings.HasPrefix(pattern, "*."):
			domain := pattern[2:]
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return true
			}
		}
	}
	return false
}
