package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager signs and validates short-lived web-session tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// SessionClaims is the identity carried by a web-session token.
type SessionClaims struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Scopes   []string
}

// sessionClaims extends standard JWT claims with tenant and scopes.
type sessionClaims struct {
	jwt.RegisteredClaims
	TenantID string   `json:"tid"`
	Scopes   []string `json:"scope,omitempty"`
}

// GenerateSessionToken creates a signed HS256 JWT with the user ID as subject.
func (m *JWTManager) GenerateSessionToken(c SessionClaims) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID: c.TenantID.String(),
		Scopes:   c.Scopes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateSessionToken parses and validates a web-session token.
func (m *JWTManager) ValidateSessionToken(tokenString string) (SessionClaims, error) {
	if tokenString == "" {
		return SessionClaims{}, errors.New("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return SessionClaims{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return SessionClaims{}, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("invalid subject UUID: %w", err)
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("invalid tenant UUID: %w", err)
	}

	return SessionClaims{UserID: userID, TenantID: tenantID, Scopes: claims.Scopes}, nil
}
