package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_HasPrefix(t *testing.T) {
	got, err := Generate("book")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "book-"))
	// prefix + dash + 21-char nanoid
	assert.Len(t, got, len("book-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got, err := Generate("club")
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate ID generated: %s", got)
		seen[got] = true
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		got := MustGenerate("user")
		assert.True(t, strings.HasPrefix(got, "user-"))
	})
}

func TestInviteCode(t *testing.T) {
	code, err := InviteCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.Contains(t, inviteAlphabet, string(r))
	}
}
