package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/middleware"
)

const issuer = "hadeedcart-backend"

// Principal is the identity embedded in a token under the "user" claim.
type Principal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Claims is the JWT payload of an employee session.
type Claims struct {
	User Principal `json:"user"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 session tokens.
type JWTManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager with the given secret and expiry.
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Generate signs a session token for the employee.
func (m *JWTManager) Generate(e *domain.Employee) (string, error) {
	now := m.now().UTC()
	claims := &Claims{
		User: Principal{
			ID:          e.ID,
			Name:        e.Name,
			Role:        string(e.Role),
			Permissions: e.PermissionStrings(),
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   e.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and returns its claims.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.User.ID == "" {
		return nil, errors.New("token has no user")
	}
	return claims, nil
}

// TokenValidator adapts the manager to the auth middleware.
func (m *JWTManager) TokenValidator() middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		c, err := m.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			ID:          c.User.ID,
			Name:        c.User.Name,
			Role:        c.User.Role,
			Permissions: c.User.Permissions,
		}, nil
	}
}
