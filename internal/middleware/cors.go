package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the given origins. With no origins configured every origin is
// allowed, except in production where cross-origin calls are denied.
func CORS(origins []string, production bool) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	switch {
	case len(origins) > 0:
		cfg.AllowOrigins = origins
	case production:
		cfg.AllowOriginFunc = func(string) bool { return false }
	default:
		cfg.AllowAllOrigins = true
	}
	cfg.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	cfg.AddAllowHeaders("Authorization", RequestIDHeader)
	cfg.AddExposeHeaders(RequestIDHeader)
	return cors.New(cfg)
}
