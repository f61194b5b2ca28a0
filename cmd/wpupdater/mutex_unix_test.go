//go:build !windows

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLockAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	ok, err := acquireLockAt(path)
	require.NoError(t, err)
	assert.True(t, ok)

	releaseLock()
	assert.NoFileExists(t, path)

	ok, err = acquireLockAt(path)
	require.NoError(t, err)
	assert.True(t, ok)
	releaseLock()
}
