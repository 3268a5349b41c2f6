package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Get("trace_id")
		c.String(http.StatusOK, id.(string))
	})
	return r
}

func TestTraceIDMintedWhenAbsent(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	traceRouter().ServeHTTP(w, req)

	got := w.Header().Get("X-Trace-ID")
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, got, w.Body.String())
}

func TestTraceIDPropagatedFromHeader(t *testing.T) {
	incoming := uuid.New().String()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-ID", incoming)
	traceRouter().ServeHTTP(w, req)

	assert.Equal(t, incoming, w.Header().Get("X-Trace-ID"))
	assert.Equal(t, incoming, w.Body.String())
}

func TestTraceIDRejectsMalformedHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-ID", "not-a-uuid")
	traceRouter().ServeHTTP(w, req)

	got := w.Header().Get("X-Trace-ID")
	assert.NotEqual(t, "not-a-uuid", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}
