package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tubos/internal/auth"
	"tubos/internal/testutil"
)

func TestHealth_NoTokenRequired(t *testing.T) {
	setupTest(t)

	w := doRequest(t, "GET", "/api/health", "", nil)
	if w.Code != 200 {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestRequireAuth_ForeignSecret(t *testing.T) {
	setupTest(t)

	// Signed with a different secret: invalid, not missing.
	token, err := auth.IssueToken([]byte("other-secret"), auth.Identity{ID: 1, Username: "admin", Rol: "admin"})
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	w := doRequest(t, "GET", "/api/tubos", token, nil)
	if w.Code != 403 {
		t.Errorf("Expected status 403 for foreign token, got %d", w.Code)
	}
}

func TestRequireAuth_BindsIdentity(t *testing.T) {
	setupTest(t)

	req := httptest.NewRequest("GET", "/api/tubos", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.AdminToken(t))
	w := httptest.NewRecorder()

	var got auth.Identity
	requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = currentIdentity(r)
	})).ServeHTTP(w, req)

	if got.Username != "admin" || got.Rol != "admin" || got.ID != 1 {
		t.Errorf("Identity not bound into context: %+v", got)
	}
}

func TestLoggingMiddleware_Options(t *testing.T) {
	setupTest(t)

	req := httptest.NewRequest("OPTIONS", "/api/tubos", nil)
	w := httptest.NewRecorder()
	logging(requireAuth(newMux())).ServeHTTP(w, req)

	if w.Code != 200 {
		t.Errorf("Expected preflight 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS headers on preflight")
	}
}
