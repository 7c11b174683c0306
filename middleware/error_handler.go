package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vertex-crm/utils"
)

// ErrorHandler reports errors attached by handlers once the request is
// done. Only server-side failures (5xx) go to sentry; all are logged.
func ErrorHandler(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		status := c.Writer.Status()
		for _, ginErr := range c.Errors {
			logger.Printf("%s %s -> %d: %v", c.Request.Method, c.Request.URL.Path, status, ginErr.Err)
			if status < http.StatusInternalServerError {
				continue
			}
			utils.CaptureError(ginErr.Err, map[string]interface{}{
				"endpoint": c.FullPath(),
				"method":   c.Request.Method,
				"status":   status,
				"clientId": c.Param("id"),
			})
		}
	}
}
