package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", hash)

	ok, err := h.Compare(hash, "Abcdef1!")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, other := range []string{"abcdef1!", "Abcdef1", "", "Abcdef1!!"} {
		ok, err := h.Compare(hash, other)
		require.NoError(t, err)
		assert.False(t, ok, other)
	}
}

func TestHasher_SaltsEachHash(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	a, err := h.Hash("Abcdef1!")
	require.NoError(t, err)
	b, err := h.Hash("Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_MalformedHash(t *testing.T) {
	t.Parallel()

	_, err := NewHasher(bcrypt.MinCost).Compare("not-a-hash", "x")
	assert.Error(t, err)
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}
