package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talhabinhussain/fullstack-todo-app/internal/domain"
)

// DefaultTTL applies when Issue is called with a non-positive ttl. The
// credential workflow requests its own, longer lifetime explicitly.
const DefaultTTL = 15 * time.Minute

// ErrInvalidToken is the single failure Validate reports. Signature
// mismatch, malformed structure and expiry are indistinguishable to the
// caller so validation internals don't leak.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer implements ports.TokenIssuer with a shared-secret HMAC.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// NewTokenIssuer builds an issuer for the configured algorithm. Only HMAC
// algorithms are accepted; the secret and algorithm come from config and a
// mismatch on either side reads as tampering.
func NewTokenIssuer(secret, algorithm string) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenIssuer{secret: []byte(secret), method: method}, nil
}

func (t *TokenIssuer) Issue(subjectID, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Validate(tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != t.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &domain.Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		ExpiresAt: expiresAt,
	}, nil
}
