package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("sweetchild", 4) // minimum cost keeps the test fast
	require.NoError(t, err)
	assert.NotEqual(t, "sweetchild", hash)

	assert.True(t, VerifyPassword(hash, "sweetchild"))
	assert.False(t, VerifyPassword(hash, "sweetchild "))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("sweetchild", 4)
	require.NoError(t, err)
	h2, err := HashPassword("sweetchild", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
