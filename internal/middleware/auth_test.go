package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/accountd/internal/model"
)

// mockVerifier はTokenVerifierのモック実装。
type mockVerifier struct {
	verifyFn func(token string) (string, error)
}

func (m *mockVerifier) Verify(token string) (string, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return "", model.ErrInvalidToken
}

func TestAuthMiddleware_ValidToken_InjectsContext(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(token string) (string, error) {
			if token != "valid-token" {
				t.Errorf("token = %q, want %q", token, "valid-token")
			}
			return "user-123", nil
		},
	}

	var gotUserID, gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		gotToken, _ = BearerTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := NewAuthMiddleware(verifier)(next)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotUserID != "user-123" {
		t.Errorf("userID = %q, want %q", gotUserID, "user-123")
	}
	if gotToken != "valid-token" {
		t.Errorf("token = %q, want %q", gotToken, "valid-token")
	}
}

func TestAuthMiddleware_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"scheme only", "Bearer"},
		{"empty token", "Bearer "},
		{"invalid token", "Bearer garbage"},
	}

	verifier := &mockVerifier{
		verifyFn: func(token string) (string, error) {
			return "", model.ErrInvalidToken
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			handler := NewAuthMiddleware(verifier)(next)

			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if nextCalled {
				t.Error("expected handler not to run for unauthorized request")
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("401 body is not valid JSON: %v", err)
			}
			if body["status"] != false {
				t.Errorf("status field = %v, want false", body["status"])
			}
			if body["message"] != "Unauthorized" {
				t.Errorf("message = %v, want %q", body["message"], "Unauthorized")
			}
		})
	}
}

// スキーム名は大文字小文字を区別しないこと
func TestAuthMiddleware_CaseInsensitiveScheme(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(token string) (string, error) {
			return "user-123", nil
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := NewAuthMiddleware(verifier)(next)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_VerifierError_Returns401(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(token string) (string, error) {
			return "", errors.New("unexpected failure")
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	})
	handler := NewAuthMiddleware(verifier)(next)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUserIDFromContext_MissingValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, err := UserIDFromContext(req.Context()); err == nil {
		t.Error("expected error for context without user ID")
	}
	if _, err := BearerTokenFromContext(req.Context()); err == nil {
		t.Error("expected error for context without bearer token")
	}
}
