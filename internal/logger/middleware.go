package logger

import (
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinLogMiddleware logs one line per request with method, path, status and
// duration. When running behind API Gateway the AWS request id is attached
// so log lines can be correlated with the invocation.
func GinLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if lc, ok := lambdacontext.FromContext(c.Request.Context()); ok {
			fields = append(fields, zap.String("request_id", lc.AwsRequestID))
		}
		GetLogger().Info("request", fields...)
	}
}
