package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/logger"
)

// RoleAdmin bypasses every permission check.
const RoleAdmin = "Admin"

type contextKeyType string

const claimsKey contextKeyType = "claims"

// Claims is the authenticated principal carried in the request context.
type Claims struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Has reports whether the principal holds the permission. Admins hold all.
func (c *Claims) Has(permission string) bool {
	if c == nil {
		return false
	}
	return c.Role == RoleAdmin || slices.Contains(c.Permissions, permission)
}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator func(token string) (*Claims, error)

// Auth validates the bearer token and injects the claims into context.
// The request-scoped logger is re-enriched with the user id and role.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("no valid token, authorization denied"), nil)
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid authorization header format"), nil)
				return
			}

			claims, err := validate(strings.TrimSpace(token))
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("token is not valid"), nil)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.ID, claims.Role)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(
				slog.String("user_id", claims.ID),
				slog.String("role", claims.Role),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission answers 403 unless the principal is an Admin or holds
// the named permission. It must be mounted after Auth.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ClaimsFromContext(r.Context()).Has(permission) {
				httputil.WriteError(w, r, apperrors.Forbidden("you do not have permission to "+strings.ReplaceAll(permission, "_", " ")), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 403 unless the principal has one of the roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := ClaimsFromContext(r.Context())
			if c == nil || !slices.Contains(roles, c.Role) {
				httputil.WriteError(w, r, apperrors.Forbidden("insufficient permissions"), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the authenticated principal, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.ID
	}
	return ""
}
