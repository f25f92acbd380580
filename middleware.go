package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"tubos/internal/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := uuid.NewString()[:8]
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s %s", rid, r.Method, r.URL.Path, time.Since(start))
	})
}

// requireAuth verifies the bearer token once and binds the identity into the
// request context. Everything under /api/ except login and health requires a
// valid token; the WebSocket endpoint accepts the token as a query parameter
// because browsers cannot set headers on WebSocket dials.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		protected := strings.HasPrefix(path, "/api/") || path == "/ws"
		if path == "/api/login" || path == "/api/health" {
			protected = false
		}
		if !protected {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" && path == "/ws" {
			token = r.URL.Query().Get("token")
		}

		identity, err := auth.VerifyToken(jwtSecret, token)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				jsonErr(w, "Token requerido", 401)
				return
			}
			jsonErr(w, "Token inválido", 403)
			return
		}

		ctx := context.WithValue(r.Context(), ctxIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// currentIdentity returns the identity bound by requireAuth.
func currentIdentity(r *http.Request) auth.Identity {
	id, _ := r.Context().Value(ctxIdentity).(auth.Identity)
	return id
}

// requireAdmin returns the caller's identity, or writes a 403 and reports
// false when the caller is not an admin.
func requireAdmin(w http.ResponseWriter, r *http.Request, action string) (auth.Identity, bool) {
	id := currentIdentity(r)
	if !id.IsAdmin() {
		jsonErr(w, "Solo administradores pueden "+action, 403)
		return auth.Identity{}, false
	}
	return id, true
}
