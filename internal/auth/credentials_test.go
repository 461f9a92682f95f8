package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/auth"
	_ "github.com/sentinel-iam/sentinel/testing"
)

func TestHashDeterministicPerSalt(t *testing.T) {
	hasher := auth.NewHasher()
	salt, err := hasher.GenerateSalt()
	require.NoError(t, err)

	first, err := hasher.Hash("hunter2hunter2", salt)
	require.NoError(t, err)
	second, err := hasher.Hash("hunter2hunter2", salt)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	otherSalt, err := hasher.GenerateSalt()
	require.NoError(t, err)
	require.NotEqual(t, salt, otherSalt)
	third, err := hasher.Hash("hunter2hunter2", otherSalt)
	require.NoError(t, err)
	assert.NotEqual(t, first, third, "same password under a different salt must not collide")
}

func TestHashRejectsEmptyInputs(t *testing.T) {
	hasher := auth.NewHasher()
	_, err := hasher.Hash("", "somesalt")
	assert.Error(t, err)
	_, err = hasher.Hash("password", "")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	hasher := auth.NewHasher()
	salt, err := hasher.GenerateSalt()
	require.NoError(t, err)
	hash, err := hasher.Hash("correct horse battery", salt)
	require.NoError(t, err)

	assert.True(t, hasher.Verify("correct horse battery", salt, hash))
	assert.False(t, hasher.Verify("wrong password", salt, hash))
	assert.False(t, hasher.Verify("correct horse battery", "wrong salt", hash))
	assert.False(t, hasher.Verify("", salt, hash))
}
