package router

import "testing"

func TestRequiresAuth(t *testing.T) {
	public := []string{"/api/auth/login", "/api/auth/register", "/api/health"}
	for _, path := range public {
		if requiresAuth(path) {
			t.Fatalf("%s should be public", path)
		}
	}
	protected := []string{"/api/notes", "/api/notes/tags", "/api/auth/me", "/api/auth/logout", "/api/ws"}
	for _, path := range protected {
		if !requiresAuth(path) {
			t.Fatalf("%s should require auth", path)
		}
	}
	if requiresAuth("/healthz") {
		t.Fatalf("non-api paths are not behind auth")
	}
}
