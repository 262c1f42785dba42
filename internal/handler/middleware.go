package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slack_scribe/internal/logger"
)

// HandleSlackRetry logs Slack's at-least-once redeliveries. The event is
// still processed; the addressing check in the dispatcher decides whether a
// duplicate produces a reply.
func HandleSlackRetry() gin.HandlerFunc {
	return func(c *gin.Context) {
		retryNum := c.GetHeader("X-Slack-Retry-Num")
		if retryNum != "" {
			logger.GetLogger().Info("slack retry request",
				zap.String("retry_num", retryNum),
				zap.String("retry_reason", c.GetHeader("X-Slack-Retry-Reason")))
		}
		c.Next()
	}
}
