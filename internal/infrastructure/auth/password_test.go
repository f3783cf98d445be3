package auth_test

import (
	"testing"

	"github.com/bakehouse/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)

	hash, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, hasher.Verify(hash, "s3cret-password"))
	assert.ErrorIs(t, hasher.Verify(hash, "wrong-password"), auth.ErrPasswordMismatch)
}

func TestBcryptHasher_DifferentSalts(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)

	h1, err := hasher.Hash("same-input")
	require.NoError(t, err)
	h2, err := hasher.Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
