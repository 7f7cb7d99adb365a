package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codr1/Padelicious/internal/api/auth"
	"github.com/codr1/Padelicious/internal/api/authz"
	"github.com/codr1/Padelicious/internal/identity"
)

func newTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokens, err := auth.NewTokenManager("middleware-test-secret")
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	return tokens
}

func TestWithAuthSetsCaller(t *testing.T) {
	tokens := newTokens(t)
	token, err := tokens.Issue(identity.Caller{ID: 7, Role: identity.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got identity.Caller
	var found bool
	handler := ChainMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = authz.CallerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}), WithAuth(tokens), WithRequestID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !found || got.ID != 7 || got.Role != identity.RoleAdmin {
		t.Fatalf("unexpected caller %+v (found=%v)", got, found)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestWithAuthAnonymousAndInvalid(t *testing.T) {
	tokens := newTokens(t)
	called := false
	handler := WithAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := authz.CallerFromContext(r.Context()); ok {
			t.Errorf("expected anonymous request")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected anonymous pass-through, got %d (called=%v)", rec.Code, called)
	}

	called = false
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if called {
		t.Fatalf("handler must not run for an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body)
	}
}

func TestWithRecoveryWritesJSON(t *testing.T) {
	handler := ChainMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), WithLogging, WithRecovery, WithRequestID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got %q", ct)
	}
}

func TestResponseWriterDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := wrapResponseWriter(rec)
	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rw.Status() != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Status())
	}
}
