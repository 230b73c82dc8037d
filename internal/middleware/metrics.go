package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/service"
)

// Metrics feeds the per-route HTTP histogram and counter. The route template
// is preferred over the raw URL so /events/:id stays a single series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
