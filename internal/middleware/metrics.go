package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched route
// template, so /blocked_apps/1 and /blocked_apps/2 share one series.
func Metrics(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		recorder.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
