package testutil

import (
	"path/filepath"
	"testing"

	"tubos/internal/auth"
	"tubos/internal/store"
)

// Secret is the signing secret handler tests run with.
var Secret = []byte("test-secret")

// OpenStore opens a freshly bootstrapped store in a temp directory.
func OpenStore(t *testing.T) *store.FileStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "database.json"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	return s
}

// AdminToken mints a token for the seeded admin account.
func AdminToken(t *testing.T) string {
	t.Helper()
	return Token(t, auth.Identity{ID: 1, Username: "admin", Rol: "admin"})
}

// ClienteToken mints a token for the seeded cliente account.
func ClienteToken(t *testing.T) string {
	t.Helper()
	return Token(t, auth.Identity{ID: 2, Username: "cliente", Rol: "cliente"})
}

// Token signs a token for an arbitrary identity with the test secret.
func Token(t *testing.T, id auth.Identity) string {
	t.Helper()
	tok, err := auth.IssueToken(Secret, id)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return tok
}
