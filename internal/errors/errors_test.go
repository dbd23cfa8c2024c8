package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitErrorMatching(t *testing.T) {
	err := NewNotFoundError(CodeNoBase, "no base package in app.apks").
		WithContext("source", "app.apks")

	wrapped := fmt.Errorf("plan failed: %w", err)
	assert.True(t, Is(wrapped, ErrNoBase))
	assert.False(t, Is(wrapped, ErrNoPackages))

	var splitErr *SplitError
	assert.True(t, As(wrapped, &splitErr))
	assert.Equal(t, "app.apks", splitErr.Context["source"])
}

func TestSplitErrorUnwrap(t *testing.T) {
	err := NewFileSystemError(CodeSourceUnreadable, "cannot open source", fs.ErrNotExist)
	assert.True(t, Is(err, fs.ErrNotExist))
	assert.Equal(t, "cannot open source: file does not exist", err.Error())
}

func TestFormatDetailed(t *testing.T) {
	err := NewDeviceError(CodeDeviceUnavailable, "device offline", nil).
		WithContext("serial", "emulator-5554").
		WithContext("adb", "adb")

	out := err.FormatDetailed()
	assert.Contains(t, out, "DEVICE error [DEVICE_UNAVAILABLE]: device offline")
	assert.Contains(t, out, "   adb: adb\n   serial: emulator-5554\n")
	assert.Contains(t, out, "Suggestions:")
	assert.NotContains(t, out, "Underlying cause")
}
