package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	pairs := []struct {
		password string
		other    string
	}{
		{"secret123", "wrong"},
		{"", "x"},
		{"パスワード", "パスワート"},
		{"a b c", "a b c "},
	}
	for _, p := range pairs {
		hashed, err := h.Hash(p.password)
		require.NoError(t, err)
		assert.NotEqual(t, p.password, hashed)
		assert.True(t, h.Verify(p.password, hashed), "password %q should verify", p.password)
		assert.False(t, h.Verify(p.other, hashed), "other %q must not verify", p.other)
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestNewHasherCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(0).Cost())
	assert.Equal(t, DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewHasher(12).Cost())

	hashed, err := NewHasher(0).Hash("secret123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestHashTooLong(t *testing.T) {
	_, err := NewHasher(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, NewHasher(bcrypt.MinCost).Verify("secret123", "not-a-bcrypt-hash"))
	assert.False(t, NewHasher(bcrypt.MinCost).Verify("secret123", ""))
}
