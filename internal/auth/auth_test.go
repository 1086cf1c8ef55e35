package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/userctx"
)

func testConfig(required bool) *config.Config {
	return &config.Config{
		AuthMode:      config.AuthModeDev,
		AuthRequired:  required,
		JWTSecret:     "test-secret",
		JWTIssuer:     "diet-planner",
		JWTTTLMinutes: 60,
	}
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(userctx.OwnerID(r.Context())))
	})
}

func TestIssueAndVerify(t *testing.T) {
	svc := NewService(testConfig(true))

	token, err := svc.IssueToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	sub, err := svc.VerifyJWT(token)
	if err != nil || sub != "user-1" {
		t.Fatalf("expected user-1, got %q (%v)", sub, err)
	}
}

func TestVerifyRejects(t *testing.T) {
	svc := NewService(testConfig(true))

	expired, _ := svc.IssueToken("user-1", -time.Minute)
	if _, err := svc.VerifyJWT(expired); err != ErrInvalidToken {
		t.Errorf("expired: expected ErrInvalidToken, got %v", err)
	}

	otherCfg := testConfig(true)
	otherCfg.JWTSecret = "other"
	foreign, _ := NewService(otherCfg).IssueToken("user-1", time.Hour)
	if _, err := svc.VerifyJWT(foreign); err != ErrInvalidToken {
		t.Errorf("wrong secret: expected ErrInvalidToken, got %v", err)
	}

	issuerCfg := testConfig(true)
	issuerCfg.JWTIssuer = "someone-else"
	wrongIssuer, _ := NewService(issuerCfg).IssueToken("user-1", time.Hour)
	if _, err := svc.VerifyJWT(wrongIssuer); err != ErrInvalidToken {
		t.Errorf("wrong issuer: expected ErrInvalidToken, got %v", err)
	}

	if _, err := svc.VerifyJWT("garbage"); err != ErrInvalidToken {
		t.Errorf("garbage: expected ErrInvalidToken, got %v", err)
	}
}

func TestMiddlewareRequired(t *testing.T) {
	cfg := testConfig(true)
	svc := NewService(cfg)
	h := NewMiddleware(cfg, svc, zap.NewNop()).Handler(echoUser())

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing token", "/v1/profiles", "", http.StatusUnauthorized},
		{"bad scheme", "/v1/profiles", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "/v1/profiles", "Bearer nope", http.StatusUnauthorized},
		{"public healthz", "/healthz", "", http.StatusOK},
		{"public auth", "/v1/auth/dev", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}

	token, _ := svc.IssueToken("user-42", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "user-42" {
		t.Errorf("expected user-42 in context, got %d %q", w.Code, w.Body.String())
	}
}

func TestMiddlewareOptional(t *testing.T) {
	cfg := testConfig(false)
	h := NewMiddleware(cfg, NewService(cfg), zap.NewNop()).Handler(echoUser())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))
	if w.Code != http.StatusOK || w.Body.String() != userctx.DefaultUserID {
		t.Errorf("expected default user, got %d %q", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("provided invalid token must be rejected, got %d", w.Code)
	}
}

func TestHandleDevAuth(t *testing.T) {
	cfg := testConfig(true)
	svc := NewService(cfg)
	h := NewHandlers(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleDevAuth(w, httptest.NewRequest(http.MethodPost, "/v1/auth/dev", strings.NewReader(`{"user_id":"tester"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp DevAuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.UserID != "tester" || resp.TokenType != "Bearer" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if sub, err := svc.VerifyJWT(resp.AccessToken); err != nil || sub != "tester" {
		t.Errorf("issued token does not verify: %q %v", sub, err)
	}

	// пустое тело: пользователь по умолчанию
	w = httptest.NewRecorder()
	h.HandleDevAuth(w, httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil))
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.UserID != defaultDevUserID {
		t.Errorf("expected %s, got %s", defaultDevUserID, resp.UserID)
	}
}

func TestHandleDevAuthDisabled(t *testing.T) {
	cfg := testConfig(true)
	cfg.AuthMode = config.AuthModeNone
	h := NewHandlers(NewService(cfg), zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleDevAuth(w, httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
