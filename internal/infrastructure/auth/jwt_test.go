package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rentaldocs/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestVerifier(issuer string, now time.Time) *TokenVerifier {
	v := NewTokenVerifier(config.AuthConfig{Enabled: true, Secret: testSecret, Issuer: issuer})
	v.now = func() time.Time { return now }
	return v
}

func TestTokenVerifier_IssueAndVerify(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	v := newTestVerifier("https://id.falconrental.ae", now)

	token, err := v.Issue("fleet-desk", "Fleet Desk", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "fleet-desk", claims.Subject)
	assert.Equal(t, "Fleet Desk", claims.Name)
	assert.Equal(t, "https://id.falconrental.ae", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	v := newTestVerifier("https://id.falconrental.ae", now)

	valid, err := v.Issue("fleet-desk", "", time.Hour)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	registered := func(mutate func(*jwt.RegisteredClaims)) Claims {
		c := Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "fleet-desk",
			Issuer:    "https://id.falconrental.ae",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
		mutate(&c.RegisteredClaims)
		return c
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"tampered", valid + "x", ErrInvalidToken},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), registered(func(*jwt.RegisteredClaims) {})), ErrInvalidToken},
		{"wrong algorithm", sign(jwt.SigningMethodHS512, []byte(testSecret), registered(func(*jwt.RegisteredClaims) {})), ErrInvalidToken},
		{"expired", sign(jwt.SigningMethodHS256, []byte(testSecret), registered(func(c *jwt.RegisteredClaims) {
			c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
		})), ErrExpiredToken},
		{"not yet valid", sign(jwt.SigningMethodHS256, []byte(testSecret), registered(func(c *jwt.RegisteredClaims) {
			c.NotBefore = jwt.NewNumericDate(now.Add(time.Minute))
		})), ErrTokenNotYetValid},
		{"no expiry", sign(jwt.SigningMethodHS256, []byte(testSecret), registered(func(c *jwt.RegisteredClaims) {
			c.ExpiresAt = nil
		})), ErrInvalidToken},
		{"wrong issuer", sign(jwt.SigningMethodHS256, []byte(testSecret), registered(func(c *jwt.RegisteredClaims) {
			c.Issuer = "https://elsewhere"
		})), ErrInvalidToken},
		{"no subject", sign(jwt.SigningMethodHS256, []byte(testSecret), registered(func(c *jwt.RegisteredClaims) {
			c.Subject = ""
		})), ErrMissingSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenVerifier_NoIssuerConfigured(t *testing.T) {
	now := time.Now()
	issuer := newTestVerifier("https://id.falconrental.ae", now)
	token, err := issuer.Issue("fleet-desk", "", time.Hour)
	require.NoError(t, err)

	claims, err := newTestVerifier("", now).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "fleet-desk", claims.Subject)
}
