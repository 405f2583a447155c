package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_Check(t *testing.T) {
	dir := t.TempDir()
	checker := NewChecker(0)

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"a": 1}`), 0o660))
	assert.True(t, checker.Check(valid))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"a": `), 0o660))
	assert.False(t, checker.Check(broken))

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o660))
	assert.False(t, checker.Check(empty))

	assert.False(t, checker.Check(filepath.Join(dir, "missing.json")))
	assert.False(t, checker.Check(dir), "directories are not valid store files")
}

func TestChecker_SizeCeiling(t *testing.T) {
	dir := t.TempDir()
	checker := NewChecker(16)

	small := filepath.Join(dir, "small.json")
	require.NoError(t, os.WriteFile(small, []byte(`{"ok": true}`), 0o660))
	assert.True(t, checker.Check(small))

	big := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(big, []byte(`{"padding": "xxxxxxxxxx"}`), 0o660))
	assert.False(t, checker.Check(big))
}

func TestHashBytes(t *testing.T) {
	digest := HashBytes([]byte("hello"))
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, HashBytes([]byte("hello")))
	assert.NotEqual(t, digest, HashBytes([]byte("hello!")))

	assert.True(t, Verify([]byte("hello"), digest))
	assert.False(t, Verify([]byte("tampered"), digest))
}
