package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

var skipPaths = map[string]bool{
	"/health": true,
}

// Logger logs each request with method, path, status, latency and the
// authenticated account when one is set.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		method := c.Request.Method
		accountID := c.GetString("accountID")

		if accountID != "" {
			log.Printf("%s%s%s %s%s%s %s[%d]%s %v account=%s",
				methodColor(method), method, colorReset,
				colorBlue, path, colorReset,
				statusColor(status), status, colorReset,
				latency, accountID)
			return
		}
		log.Printf("%s%s%s %s%s%s %s[%d]%s %v",
			methodColor(method), method, colorReset,
			colorBlue, path, colorReset,
			statusColor(status), status, colorReset,
			latency)
	}
}

func methodColor(method string) string {
	switch method {
	case "GET":
		return colorGreen
	case "POST":
		return colorBlue
	case "PUT":
		return colorYellow
	case "DELETE":
		return colorRed
	case "PATCH":
		return colorPurple
	default:
		return colorWhite
	}
}

func statusColor(status int) string {
	switch {
	case status >= 200 && status < 300:
		return colorGreen
	case status >= 300 && status < 400:
		return colorCyan
	case status >= 400 && status < 500:
		return colorYellow
	default:
		return colorRed
	}
}
