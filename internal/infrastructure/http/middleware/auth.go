package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/talhabinhussain/fullstack-todo-app/internal/application/ports"
)

// Authenticator validates the bearer token and puts the decoded identity in
// the request context (see IdentityFromContext).
type Authenticator struct {
	issuer ports.TokenIssuer
}

func NewAuthenticator(issuer ports.TokenIssuer) *Authenticator {
	return &Authenticator{issuer: issuer}
}

func (m *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, "missing or invalid authorization header")
			return
		}
		identity, err := m.issuer.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(w, "invalid authentication credentials")
			return
		}
		if identity.SubjectID == "" {
			unauthorized(w, "could not validate credentials")
			return
		}
		if _, err := uuid.Parse(identity.SubjectID); err != nil {
			unauthorized(w, "invalid user ID in token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}
