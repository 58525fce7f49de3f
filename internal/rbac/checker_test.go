package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChecker_DefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	tests := []struct {
		role string
		perm string
		want bool
	}{
		{"respondent", "response:submit", true},
		{"respondent", "response:view-own", true},
		{"respondent", "quiz:create", false},
		{"respondent", "response:view-all", false},
		{"author", "quiz:create", true},
		{"author", "quiz:import", true},
		{"author", "response:view-all", true},
		{"admin", "quiz:create", true},
		{"admin", "anything:at-all", true},
		{"ghost-role", "quiz:view", false},
		{"", "quiz:view", false},
	}
	for _, tc := range tests {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestChecker_WildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{
		"reviewer": {"response:*"},
	})
	if !c.Has("reviewer", "response:view-all") {
		t.Fatal("prefix wildcard should match")
	}
	if c.Has("reviewer", "quiz:view") {
		t.Fatal("prefix wildcard matched outside its prefix")
	}
}

func TestRequire(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	h := Require("quiz:create")(http.HandlerFunc(ok))

	// No role in context.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/quizzes", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("no role: %d, want 403", rec.Code)
	}

	// Role without the permission.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/quizzes", nil)
	h.ServeHTTP(rec, req.WithContext(WithRole(req.Context(), "respondent")))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("respondent: %d, want 403", rec.Code)
	}

	// Role with the permission.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/quizzes", nil)
	h.ServeHTTP(rec, req.WithContext(WithRole(req.Context(), "author")))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("author: %d, want 204", rec.Code)
	}

	// Admin matches via "*".
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/quizzes", nil)
	h.ServeHTTP(rec, req.WithContext(WithRole(req.Context(), "admin")))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin: %d, want 204", rec.Code)
	}
}
