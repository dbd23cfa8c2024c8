package system

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/apkhub-split/internal/errors"
)

func TestLocateADB(t *testing.T) {
	t.Run("configured path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "adb")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))

		got, err := LocateADB(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("configured path missing", func(t *testing.T) {
		_, err := LocateADB(filepath.Join(t.TempDir(), "nope", "adb"))
		var splitErr *errors.SplitError
		require.True(t, errors.As(err, &splitErr))
		assert.Equal(t, errors.CodeADBNotFound, splitErr.Code)
	})

	t.Run("sdk root", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("adb.exe lookup differs on windows")
		}
		root := t.TempDir()
		tools := filepath.Join(root, "platform-tools")
		require.NoError(t, os.MkdirAll(tools, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(tools, "adb"), []byte("#!/bin/sh\n"), 0755))

		t.Setenv("PATH", t.TempDir())
		t.Setenv("ANDROID_HOME", root)

		got, err := LocateADB("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tools, "adb"), got)
	})
}

func TestEnsureSpace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "created", "yet")

	assert.NoError(t, EnsureSpace(dir, 0))
	assert.NoError(t, EnsureSpace(dir, 1024))

	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		err := EnsureSpace(dir, 1<<62)
		var splitErr *errors.SplitError
		require.True(t, errors.As(err, &splitErr))
		assert.Equal(t, errors.CodeInsufficientSpace, splitErr.Code)
	}
}

func TestExistingParent(t *testing.T) {
	root := t.TempDir()

	got, err := existingParent(filepath.Join(root, "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, root, got)

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = existingParent(file)
	assert.Error(t, err)
}
