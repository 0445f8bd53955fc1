package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/amityadav/policyfeed/internal/token"
)

type contextKey string

const SubjectKey contextKey = "subject"

var ErrUnauthorized = errors.New("unauthorized")

// AdminAuth guards operator endpoints with either a static API key or an admin JWT
type AdminAuth struct {
	apiKey       string
	tokenManager *token.Manager
}

// NewAdminAuth creates a new AdminAuth. Either credential may be empty to disable it.
func NewAdminAuth(apiKey string, tm *token.Manager) *AdminAuth {
	return &AdminAuth{apiKey: apiKey, tokenManager: tm}
}

// Enabled reports whether any credential is configured
func (a *AdminAuth) Enabled() bool {
	return a != nil && (a.apiKey != "" || a.tokenManager != nil)
}

// Authenticate checks X-API-Key first, then a Bearer token with the admin role
func (a *AdminAuth) Authenticate(r *http.Request) (string, error) {
	if key := r.Header.Get("X-API-Key"); key != "" && a.apiKey != "" {
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) == 1 {
			return "api-key", nil
		}
		return "", ErrUnauthorized
	}

	header := r.Header.Get("Authorization")
	if a.tokenManager == nil || !strings.HasPrefix(header, "Bearer ") {
		return "", ErrUnauthorized
	}
	claims, err := a.tokenManager.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil || claims.Role != token.RoleAdmin {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

// Require wraps next so that only authenticated admins reach it
func (a *AdminAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			http.Error(w, `{"error": "FEED_API_KEY not configured on server"}`, http.StatusServiceUnavailable)
			return
		}
		subject, err := a.Authenticate(r)
		if err != nil {
			log.Printf("[AdminAuth] Rejected %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
			http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key or admin token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SubjectKey, subject)))
	})
}

// GetSubject extracts the authenticated subject from context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}
