package security

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's hard input limit. Anything past it would be
// silently ignored by the primitive, so the hasher truncates explicitly.
const MaxPasswordBytes = 72

// DefaultCost is the bcrypt work factor for production. Tests inject a
// lower cost to avoid the ~250ms per hash.
const DefaultCost = 12

// BcryptHasher implements ports.PasswordHasher.
type BcryptHasher struct {
	cost      int
	dummyHash string
}

// NewBcryptHasher creates a hasher with the given cost; out-of-range values
// fall back to DefaultCost. The throwaway hash for DummyVerify is computed
// once here so it carries the same cost as real hashes.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("decoy-password-for-timing"), cost)
	return &BcryptHasher{cost: cost, dummyHash: string(dummy)}
}

// Hash bcrypt-hashes the password after truncating it to the 72-byte limit.
// The salt is generated and embedded by bcrypt itself.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(TruncatePassword(password)), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify applies the same truncation as Hash, so a hash produced from a
// truncated password still verifies against the original long password.
// The underlying comparison is constant-time.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(TruncatePassword(password))) == nil
}

// DummyVerify runs one bcrypt comparison against the throwaway hash. Login
// calls it when no account matches the email, so response timing does not
// reveal whether the account exists.
func (h *BcryptHasher) DummyVerify(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(h.dummyHash), []byte(TruncatePassword(password)))
}

// TruncatePassword shortens the password to at most MaxPasswordBytes bytes
// of UTF-8 without splitting a multi-byte sequence. When the 72-byte cut
// would bisect a rune, the partial trailing sequence is dropped entirely, so
// the result may be shorter than 72 bytes. Passwords already within the
// limit are returned unchanged.
func TruncatePassword(password string) string {
	if len(password) <= MaxPasswordBytes {
		return password
	}
	cut := MaxPasswordBytes
	for cut > 0 && !utf8.RuneStart(password[cut]) {
		cut--
	}
	return password[:cut]
}
