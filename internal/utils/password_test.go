package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	const plain = "correct-horse-battery-staple"

	hash, err := HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, plain, hash)

	assert.True(t, VerifyPassword(hash, plain))
	assert.False(t, VerifyPassword(hash, "something-else"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", plain))
}

func TestHashPasswordSalted(t *testing.T) {
	const plain = "correct-horse-battery-staple"

	h1, err := HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)

	// bcrypt salts per call; equal inputs must not collide.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, plain))
	assert.True(t, VerifyPassword(h2, plain))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.Error(t, ValidatePasswordStrength("abc", 50))
	assert.Error(t, ValidatePasswordStrength("password", 50))
	assert.NoError(t, ValidatePasswordStrength("correct-horse-battery-staple-91", 50))
}
