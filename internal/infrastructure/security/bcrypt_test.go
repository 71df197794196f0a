package security

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher()
	passwords := []string{
		"pw123456",
		"corrécte horsé båttery stąple",
		"密码是一个秘密",
		strings.Repeat("a", 72),
	}
	for _, pw := range passwords {
		hash, err := h.Hash(pw)
		require.NoError(t, err, pw)
		assert.True(t, h.Verify(pw, hash), pw)
		assert.False(t, h.Verify(pw+"x", hash), pw)
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := testHasher()
	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLongPasswordVerifiesAgainstOriginal(t *testing.T) {
	h := testHasher()
	long := strings.Repeat("a", 100)
	hash, err := h.Hash(long)
	require.NoError(t, err)
	// The hash was produced from the truncated password, so both the
	// original long password and its 72-byte prefix must verify.
	assert.True(t, h.Verify(long, hash))
	assert.True(t, h.Verify(long[:72], hash))
}

func TestTruncatePasswordWithinLimitUnchanged(t *testing.T) {
	for _, pw := range []string{"", "short", strings.Repeat("x", 72), strings.Repeat("日", 24)} {
		assert.Equal(t, pw, TruncatePassword(pw))
	}
}

func TestTruncatePasswordNeverSplitsRune(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantLen  int
	}{
		{"ascii over limit", strings.Repeat("a", 80), 72},
		{"two-byte rune across boundary", strings.Repeat("a", 71) + "éé", 71},
		{"three-byte runes aligned", strings.Repeat("日", 25), 72},
		{"four-byte rune across boundary", strings.Repeat("a", 71) + "🙂🙂", 71},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncatePassword(tc.password)
			assert.Equal(t, tc.wantLen, len(got))
			assert.True(t, utf8.ValidString(got))
			assert.True(t, strings.HasPrefix(tc.password, got))
			assert.LessOrEqual(t, len(got), MaxPasswordBytes)
		})
	}
}

func TestDummyVerifyDoesNotPanic(t *testing.T) {
	h := testHasher()
	h.DummyVerify("anything")
	h.DummyVerify(strings.Repeat("長い", 100))
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(99)
	assert.Equal(t, DefaultCost, h.cost)
}
