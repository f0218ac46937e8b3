package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const realIPKey = "real_ip"

// RealIP stores the client address under "real_ip" for logging.
// Order: CF-Connecting-IP, X-Real-IP, left-most X-Forwarded-For, then c.ClientIP().
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(realIPKey, resolveIP(c))
		c.Next()
	}
}

// ClientIP returns the address set by RealIP, or gin's view when RealIP did not run.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(realIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func resolveIP(c *gin.Context) string {
	for _, h := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if ip := parseIP(c.GetHeader(h)); ip != "" {
			return ip
		}
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}

func parseIP(s string) string {
	if ip := net.ParseIP(strings.TrimSpace(s)); ip != nil {
		return ip.String()
	}
	return ""
}
