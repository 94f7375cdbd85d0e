package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin")
	require.NoError(t, err)

	assert.NotEqual(t, "admin", hash)
	assert.True(t, CheckPasswordHash("admin", hash))
	assert.False(t, CheckPasswordHash("Admin", hash))
	assert.False(t, CheckPasswordHash("admin", "not-a-hash"))
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same")
	require.NoError(t, err)
	second, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
