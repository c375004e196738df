package main

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const apiKeyHeader = "X-API-Key"

// requestAPIKey returns the key from X-API-Key or an Authorization bearer token.
func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

func (s *server) isAuthenticated(r *http.Request) bool {
	if s.apiKey == "" {
		return true
	}
	provided := requestAPIKey(r)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.apiKey)) == 1
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isAuthenticated(r) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="homequote"`)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
