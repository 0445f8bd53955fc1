package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amityadav/policyfeed/internal/token"
)

func TestRequire(t *testing.T) {
	tm := token.NewManager("jwt-secret")
	admin, _ := tm.Generate("ops", token.RoleAdmin, time.Hour)
	viewer, _ := tm.Generate("bob", "viewer", time.Hour)

	var subject string
	h := NewAdminAuth("feed-key", tm).Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = GetSubject(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		header  string
		value   string
		want    int
		subject string
	}{
		{"api key", "X-API-Key", "feed-key", http.StatusNoContent, "api-key"},
		{"wrong api key", "X-API-Key", "nope", http.StatusUnauthorized, ""},
		{"admin jwt", "Authorization", "Bearer " + admin, http.StatusNoContent, "ops"},
		{"non-admin jwt", "Authorization", "Bearer " + viewer, http.StatusUnauthorized, ""},
		{"missing", "", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject = ""
			req := httptest.NewRequest(http.MethodPost, "/api/feed/refresh", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if subject != tt.subject {
				t.Errorf("subject = %q, want %q", subject, tt.subject)
			}
		})
	}
}

func TestRequireDisabled(t *testing.T) {
	h := NewAdminAuth("", nil).Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}
