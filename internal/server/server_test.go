package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"hannas-kitchen/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type echoRoutes struct{}

func (echoRoutes) Register(r gin.IRouter) {
	r.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.RequestIDKey))
	})
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		store  Pinger
		status int
	}{
		{"healthy", fakePinger{}, http.StatusOK},
		{"store down", fakePinger{err: errors.New("refused")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(Options{Store: tt.store}, logger.Discard())
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]interface{}
			json.Unmarshal(rec.Body.Bytes(), &body)
			if body["healthy"] != (tt.status == http.StatusOK) {
				t.Errorf("healthy = %v", body["healthy"])
			}
		})
	}
}

func TestRouter_MountsAPIWithRequestID(t *testing.T) {
	var logs bytes.Buffer
	r := NewRouter(Options{API: []Routes{echoRoutes{}}}, logger.NewWithWriter("api-server", &logs))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/echo", nil))

	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Fatalf("status = %d, body = %q", rec.Code, rec.Body.String())
	}
	if !strings.Contains(logs.String(), "request_completed") || !strings.Contains(logs.String(), rec.Body.String()) {
		t.Errorf("expected request log lines carrying the request id, got %s", logs.String())
	}
}

func TestRouter_CORSAndUploads(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "1-cake.png"), []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRouter(Options{UploadsDir: dir}, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/uploads/1-cake.png", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "img" {
		t.Fatalf("status = %d, body = %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
