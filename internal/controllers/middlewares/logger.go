package middlewares

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDHeader заголовок с идентификатором запроса. Входящее значение сохраняется.
const RequestIDHeader = "X-Request-ID"

// AccessLogMiddleware пишет по строке на запрос. Ставится первым в цепочке.
//
// Уровень записи зависит от статуса ответа. Успешные запросы к quietRoutes
// (шаблоны маршрутов gin, например "/ping") пишутся на уровне Debug.
func AccessLogMiddleware(logger *zap.Logger, quietRoutes ...string) gin.HandlerFunc {
	if logger == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("size", c.Writer.Size()),
		}
		if code := c.Param("shortCode"); code != "" {
			fields = append(fields, zap.String("short_code", code))
		}
		if loc := c.Writer.Header().Get("Location"); loc != "" {
			fields = append(fields, zap.String("location", loc))
		}
		if ownerID, ok := OwnerID(c); ok {
			fields = append(fields, zap.String("owner", ownerID))
		}
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			fields = append(fields, zap.String("error", msg))
		}

		level, msg := zapcore.InfoLevel, "Request processed"
		switch {
		case status >= http.StatusInternalServerError:
			level, msg = zapcore.ErrorLevel, "Server error"
		case status >= http.StatusBadRequest:
			level, msg = zapcore.WarnLevel, "Client error"
		case slices.Contains(quietRoutes, route):
			level = zapcore.DebugLevel
		}
		logger.Log(level, msg, fields...)
	}
}
