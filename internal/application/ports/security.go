package ports

import (
	"time"

	"github.com/talhabinhussain/fullstack-todo-app/internal/domain"
)

// PasswordHasher hashes and verifies passwords (bcrypt).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	// DummyVerify burns one comparison against a throwaway hash so a lookup
	// miss costs the same as a failed verify.
	DummyVerify(password string)
}

// TokenIssuer signs and validates bearer tokens (shared-secret HMAC).
type TokenIssuer interface {
	// Issue signs a token carrying the subject id, email and an absolute
	// expiry of now+ttl. A non-positive ttl falls back to the issuer default.
	Issue(subjectID, email string, ttl time.Duration) (string, error)
	// Validate returns the decoded identity, or a single opaque error for
	// any signature, structure or expiry problem.
	Validate(token string) (*domain.Identity, error)
}
