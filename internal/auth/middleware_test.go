package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// protectedEcho is a handler that records whether it ran and what identity
// it saw. The 401 tests assert it never runs.
type protectedEcho struct {
	called bool
	userID string
}

func (p *protectedEcho) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.called = true
	p.userID, _ = UserIDFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_NoToken(t *testing.T) {
	ts := newTestTokenService(t)
	echo := &protectedEcho{}
	h := RequireAuth(ts)(echo)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if echo.called {
		t.Error("handler must not run without a credential")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)
	echo := &protectedEcho{}
	h := RequireAuth(ts)(echo)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if echo.called {
		t.Error("handler must not run with an invalid credential")
	}
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	echo := &protectedEcho{}
	h := RequireAuth(ts)(echo)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !echo.called {
		t.Fatal("handler should run with a valid credential")
	}
	if echo.userID != "user-123" {
		t.Errorf("context userID = %q, want %q", echo.userID, "user-123")
	}
}

func TestRequireAuth_Cookie(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate("user-456")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	echo := &protectedEcho{}
	h := RequireAuth(ts)(echo)

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if echo.userID != "user-456" {
		t.Errorf("context userID = %q, want %q", echo.userID, "user-456")
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id, ok := UserIDFromContext(req.Context()); ok || id != "" {
		t.Errorf("UserIDFromContext on bare context = (%q, %v), want (\"\", false)", id, ok)
	}
}
