package securestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	_, ok, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "auth_token", "tok-1"))

	v, ok, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, s.Delete(ctx, "auth_token"))
	_, ok, err = s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "auth_token"), "delete of absent key is not an error")
}

func TestFileStore_ValueIsEncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Set(context.Background(), "auth_token", "very-secret-token"))

	raw, err := os.ReadFile(filepath.Join(dir, "auth_token.sealed"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "very-secret-token")

	info, err := os.Stat(filepath.Join(dir, "auth_token.sealed"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, New(dir).Set(ctx, "auth_token", "tok-2"))

	v, ok, err := New(dir).Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-2", v)
}

func TestFileStore_LostDeviceSecretMakesValueUnreadable(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, New(dir).Set(ctx, "auth_token", "tok"))
	require.NoError(t, os.Remove(filepath.Join(dir, secretFile)))

	_, _, err := New(dir).Get(ctx, "auth_token")
	assert.Error(t, err)
}

func TestFileStore_RejectsPathLikeKeys(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "../etc/passwd", "a/b"} {
		assert.ErrorIs(t, s.Set(ctx, key, "v"), ErrInvalidKey)
		_, _, err := s.Get(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.ErrorIs(t, s.Delete(ctx, key), ErrInvalidKey)
	}
}

func TestFileStore_SetFailsWhenDirUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Set(context.Background(), "auth_token", "tok"))
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	assert.Error(t, s.Set(context.Background(), "auth_token", "tok-2"))
}
