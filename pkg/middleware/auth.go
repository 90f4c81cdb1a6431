package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/estoque/pkg/auth"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/response"
)

type claimsKey struct{}

// AuthMiddleware requires a valid bearer token and stores its claims in the
// request context for rbac and handlers.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			response.Unauthorized(w, "")
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.WithCtx(r.Context()).Warn("auth: token rejected", "error", err)
			response.Unauthorized(w, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RoleFromCtx returns the role of the authenticated caller.
func RoleFromCtx(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims)
	if !ok {
		return "", false
	}
	return claims.Role, true
}

// SubjectFromCtx returns the subject of the authenticated caller.
func SubjectFromCtx(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}
