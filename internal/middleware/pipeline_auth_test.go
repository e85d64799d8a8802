package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"finbridge/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func TestPipelineAuthMiddleware(t *testing.T) {
	const key = "recalc-job-key"

	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "matching_key", configured: key, header: key, wantStatus: http.StatusNoContent},
		{name: "wrong_key", configured: key, header: "recalc-job-kez", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_API_KEY"},
		{name: "prefix_only", configured: key, header: "recalc", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_API_KEY"},
		{name: "no_header", configured: key, wantStatus: http.StatusUnauthorized, wantCode: "INVALID_API_KEY"},
		{name: "key_not_configured", header: key, wantStatus: http.StatusServiceUnavailable, wantCode: "PIPELINE_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := gin.New()
			r.POST("/pipeline/health-scores/recalculate", PipelineAuthMiddleware(tt.configured), func(c *gin.Context) {
				reached = true
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/pipeline/health-scores/recalculate", http.NoBody)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if reached != (tt.wantCode == "") {
				t.Errorf("handler reached = %v", reached)
			}
			if tt.wantCode == "" {
				return
			}
			body := parseBody(t, rec)
			if body["success"] != false || body["code"] != tt.wantCode {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestPipelineAuthMiddlewareLogsRejections(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	r := gin.New()
	r.POST("/recalculate", PipelineAuthMiddleware("recalc-job-key"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/recalculate", http.NoBody)
	req.Header.Set("X-API-Key", "stolen")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("rejected pipeline request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if path := entries[0].ContextMap()["path"]; path != "/recalculate" {
		t.Errorf("path = %v", path)
	}
	for _, f := range entries[0].Context {
		if f.String == "stolen" {
			t.Error("presented key must not be logged")
		}
	}
}
