package domain

import "time"

// Identity is the fixed-shape authenticated identity decoded from a bearer
// token. Only token validation produces it; handlers read it from the
// request context.
type Identity struct {
	SubjectID string
	Email     string
	ExpiresAt time.Time
}
