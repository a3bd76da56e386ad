package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hashed, err := Password("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "secret1", hashed)

	assert.True(t, Verify("secret1", hashed))
	assert.False(t, Verify("secret2", hashed))
}

func TestPasswordSaltsAreUnique(t *testing.T) {
	first, err := Password("secret1")
	require.NoError(t, err)
	second, err := Password("secret1")
	require.NoError(t, err)

	// Same input, different salt, different output — both still verify.
	assert.NotEqual(t, first, second)
	assert.True(t, Verify("secret1", first))
	assert.True(t, Verify("secret1", second))
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, Verify("secret1", "not-a-bcrypt-hash"))
	assert.False(t, Verify("secret1", ""))
}
