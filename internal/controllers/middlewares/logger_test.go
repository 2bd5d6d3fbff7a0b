package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func accessLogRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(level)

	r := gin.New()
	r.Use(AccessLogMiddleware(zap.New(core), "/ping"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/:shortCode", func(c *gin.Context) {
		if c.Param("shortCode") == "broken" {
			_ = c.Error(errors.New("storage down"))
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, "https://example.com/target")
	})
	return r, logs
}

func TestAccessLogMiddleware_Redirect(t *testing.T) {
	r, logs := accessLogRouter(zapcore.DebugLevel)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/abc123", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "/:shortCode", fields["route"])
	assert.Equal(t, "abc123", fields["short_code"])
	assert.Equal(t, "https://example.com/target", fields["location"])
	assert.EqualValues(t, http.StatusTemporaryRedirect, fields["status"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), fields["request_id"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestAccessLogMiddleware_KeepsIncomingRequestID(t *testing.T) {
	r, logs := accessLogRouter(zapcore.DebugLevel)

	req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-1", logs.All()[0].ContextMap()["request_id"])
}

func TestAccessLogMiddleware_ServerError(t *testing.T) {
	r, logs := accessLogRouter(zapcore.DebugLevel)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Contains(t, entry.ContextMap()["error"], "storage down")
}

func TestAccessLogMiddleware_QuietRoute(t *testing.T) {
	r, logs := accessLogRouter(zapcore.InfoLevel)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Zero(t, logs.Len())
}

func TestAccessLogMiddleware_NilLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AccessLogMiddleware(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get(RequestIDHeader))
}
