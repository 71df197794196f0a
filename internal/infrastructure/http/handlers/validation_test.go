package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", SanitizeEmail("  a@x.com \n"))
	// Case is significant for login keys; nothing is folded.
	assert.Equal(t, "Admin@X.com", SanitizeEmail("Admin@X.com"))
	assert.Equal(t, "", SanitizeEmail("   "))

	long := strings.Repeat("a", MaxEmailLength) + "@x.com"
	assert.Equal(t, "", SanitizeEmail(long))

	atLimit := strings.Repeat("a", MaxEmailLength-6) + "@x.com"
	assert.Equal(t, atLimit, SanitizeEmail(atLimit))
}
