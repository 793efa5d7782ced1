package auth

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leituraapp/leitura-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	svc, err := NewTokenService(key, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	user := &domain.User{ID: "user-abc123", Username: "marina"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc123", claims.UserID)
	assert.Equal(t, "marina", claims.Username)
	assert.Equal(t, "user-abc123", claims.Subject)
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc := newTestTokenService(t)
	other := newTestTokenService(t)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-abc123"})
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestNewTokenService_BadKeyLength(t *testing.T) {
	_, err := NewTokenService(make([]byte, 16), time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	svc := newTestTokenService(t)

	tok1, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	tok2, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok1, tok2)

	assert.Equal(t, HashRefreshToken(tok1), HashRefreshToken(tok1))
	assert.NotEqual(t, HashRefreshToken(tok1), HashRefreshToken(tok2))
	assert.NotEqual(t, tok1, HashRefreshToken(tok1))
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, 32)

	// Second call loads the same key.
	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	// Corrupt key file errors out.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.key"), []byte("short"), 0o600))
	_, err = LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
