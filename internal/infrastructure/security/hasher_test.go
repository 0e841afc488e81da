package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSHA256Hasher(t *testing.T) {
	h := SHA256Hasher{}

	digest, err := h.Hash("faiza123")
	require.NoError(t, err)
	assert.Len(t, digest, 64)
	assert.Equal(t, sha256Hex("faiza123"), digest)

	assert.True(t, h.Verify(digest, "faiza123"))
	assert.False(t, h.Verify(digest, "faiza124"))
	assert.False(t, h.Verify("", "faiza123"))
}

func TestSHA256Hasher_KnownVector(t *testing.T) {
	digest, err := SHA256Hasher{}.Hash("")
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", digest)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("ratul123")
	require.NoError(t, err)
	assert.True(t, IsBcrypt(digest))

	assert.True(t, h.Verify(digest, "ratul123"))
	assert.False(t, h.Verify(digest, "wrong"))
}

func TestBcryptHasher_AcceptsLegacyDigests(t *testing.T) {
	legacy := sha256Hex("admin123")

	h := NewBcryptHasher(bcrypt.MinCost)
	assert.False(t, IsBcrypt(legacy))
	assert.True(t, h.Verify(legacy, "admin123"))
	assert.False(t, h.Verify(legacy, "admin"))
	assert.False(t, h.Verify("not-a-digest", "admin123"))
}

func TestNew(t *testing.T) {
	h, err := New("sha256")
	require.NoError(t, err)
	assert.IsType(t, SHA256Hasher{}, h)

	h, err = New("bcrypt")
	require.NoError(t, err)
	assert.IsType(t, BcryptHasher{}, h)

	_, err = New("md5")
	assert.Error(t, err)
}
