package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT signs and verifies bearer tokens carrying a subject (the user's
// email) and an absolute expiry. Secret, algorithm and default TTL come
// from process configuration, loaded once.
type JWT struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
}

func NewJWT(secret, algo string, ttl time.Duration) (*JWT, error) {
	m, ok := jwt.GetSigningMethod(strings.ToUpper(algo)).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algo)
	}
	return &JWT{secret: []byte(secret), method: m, ttl: ttl}, nil
}

func (j *JWT) Sign(subject string) (string, error) {
	return j.SignWithTTL(subject, j.ttl)
}

func (j *JWT) SignWithTTL(subject string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	t := jwt.NewWithClaims(j.method, claims)
	return t.SignedString(j.secret)
}

// Verify returns the embedded subject. Malformed structure, signature
// mismatch, unexpected algorithm and expiry all collapse into
// ErrInvalidToken; callers never learn which one it was.
func (j *JWT) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if token.Method != j.method {
			return nil, ErrInvalidToken
		}
		return j.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !t.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
