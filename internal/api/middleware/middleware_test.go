package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationID(), SlogLogger(slog.New(slog.NewTextHandler(buf, nil))))
	r.GET("/ping", func(c *gin.Context) {
		LoggerFromContext(c).Info("handler ran")
		c.String(http.StatusOK, GetCorrelationID(c))
	})
	return r
}

func TestCorrelationIDGeneratedAndEchoed(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(HeaderCorrelationID)
	if id == "" || w.Body.String() != id {
		t.Fatalf("expected generated id echoed, header=%q body=%q", id, w.Body.String())
	}
	if !strings.Contains(buf.String(), "correlation_id="+id) {
		t.Fatalf("log lines should carry the correlation id: %s", buf.String())
	}
}

func TestCorrelationIDFromClient(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderCorrelationID, "client-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderCorrelationID); got != "client-id" {
		t.Fatalf("client id not kept: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderCorrelationID, strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderCorrelationID); len(got) > maxCorrelationIDLen {
		t.Fatalf("oversized id should be replaced, got %q", got)
	}
}

func TestNotFoundLoggedAsWarn(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "status=404") {
		t.Fatalf("expected warn access log for 404: %s", buf.String())
	}
}
