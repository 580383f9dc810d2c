// AngelaMos | 2026
// security_test.go

package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestNewPasswordHasher_RejectsCostOutOfRange(t *testing.T) {
	_, err := NewPasswordHasher(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = NewPasswordHasher(40)
	assert.Error(t, err)
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"), "bcrypt hash expected, got %q", hash)
	assert.NotEqual(t, "pw", hash)

	ok, err := h.Verify("pw", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_HashIsSalted(t *testing.T) {
	h := newTestHasher(t)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_DefaultCostIsEncoded(t *testing.T) {
	h, err := NewPasswordHasher(DefaultBcryptCost)
	require.NoError(t, err)

	hash, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestPasswordHasher_VerifyMalformedHash(t *testing.T) {
	h := newTestHasher(t)

	ok, err := h.Verify("pw", "not-a-hash")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestPasswordHasher_VerifyTimingSafe(t *testing.T) {
	h := newTestHasher(t)

	ok, err := h.VerifyTimingSafe("pw", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	empty := ""
	ok, err = h.VerifyTimingSafe("pw", &empty)
	require.NoError(t, err)
	assert.False(t, ok)

	hash, err := h.Hash("pw")
	require.NoError(t, err)
	ok, err = h.VerifyTimingSafe("pw", &hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompareSecret(t *testing.T) {
	assert.True(t, CompareSecret("key", "key"))
	assert.False(t, CompareSecret("key", "other"))
	assert.False(t, CompareSecret("", "key"))
}
