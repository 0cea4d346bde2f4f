// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "github-password", "s3cret\n")
	writeFile(t, dir, "blank", "\n")

	v, ok, err := Lookup(dir, "github-password")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "s3cret", v)

	_, ok, err = Lookup(dir, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Lookup(dir, "blank")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Lookup(filepath.Join(dir, "nope"), "github-password")
	require.NoError(t, err)
	assert.False(t, ok)

	for _, bad := range []string{"", "../etc/passwd", ".hidden"} {
		_, _, err := Lookup(dir, bad)
		assert.Error(t, err, bad)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
