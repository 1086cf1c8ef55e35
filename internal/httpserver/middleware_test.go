package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fdg312/diet-planner/internal/userctx"
)

func TestAccessLogRecordsUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	// auth внутри access log, как в Server.Handler
	authed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing token")
			return
		}
		_ = userctx.WithUserID(r.Context(), "u-42")
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AccessLogMiddleware(logger, authed)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	req.Header.Set("Authorization", "Bearer x")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))

	entries := logs.FilterMessage("request").AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 access log lines, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["user"]; got != "u-42" {
		t.Errorf("expected user u-42, got %v", got)
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusNoContent) {
		t.Errorf("expected status 204, got %v", got)
	}
	if got := entries[1].ContextMap()["user"]; got != "-" {
		t.Errorf("expected user - for rejected request, got %v", got)
	}
}
