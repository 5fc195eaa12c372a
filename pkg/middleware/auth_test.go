package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticValidator(claims *Claims) TokenValidator {
	return func(token string) (*Claims, error) {
		if token != "good-token" {
			return nil, errors.New("bad signature")
		}
		return claims, nil
	}
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func serveWithAuth(t *testing.T, header string, claims *Claims, mw ...func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var h http.Handler = http.HandlerFunc(okHandler)
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	h = Auth(staticValidator(claims))(h)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer wrong"} {
		rec := serveWithAuth(t, header, &Claims{ID: "e1"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	}
}

func TestAuth_InjectsClaims(t *testing.T) {
	claims := &Claims{ID: "e1", Name: "Ali", Role: "Employee", Permissions: []string{"manage_products"}}

	var seen *Claims
	h := Auth(staticValidator(claims))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "Ali", seen.Name)
	assert.Equal(t, "e1", UserIDFromContext(WithClaims(req.Context(), seen)))
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name   string
		claims *Claims
		want   int
	}{
		{"admin bypasses", &Claims{ID: "a", Role: RoleAdmin}, http.StatusOK},
		{"employee with permission", &Claims{ID: "b", Role: "Employee", Permissions: []string{"manage_products"}}, http.StatusOK},
		{"employee without permission", &Claims{ID: "c", Role: "Employee", Permissions: []string{"view_dashboard"}}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithAuth(t, "Bearer good-token", tt.claims, RequirePermission("manage_products"))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	rec := serveWithAuth(t, "Bearer good-token", &Claims{ID: "b", Role: "Employee"}, RequireRole(RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serveWithAuth(t, "Bearer good-token", &Claims{ID: "a", Role: RoleAdmin}, RequireRole(RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClaimsHas_NilSafe(t *testing.T) {
	var c *Claims
	assert.False(t, c.Has("view_dashboard"))
}
