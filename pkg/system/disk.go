package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/utils"
)

// EnsureSpace fails when the file system holding dir has less than need
// bytes available. dir does not have to exist yet. When the platform cannot
// report free space the check passes.
func EnsureSpace(dir string, need int64) error {
	if need <= 0 {
		return nil
	}

	existing, err := existingParent(dir)
	if err != nil {
		return err
	}

	available, err := availableSpace(existing)
	if err != nil {
		utils.GetGlobalLogger().Debug("Skipping disk space check for %s: %v", existing, err)
		return nil
	}

	if available < uint64(need) {
		return errors.NewError(errors.ErrorTypeFileSystem, errors.CodeInsufficientSpace, "not enough disk space").
			WithContext("path", existing).
			WithContext("required", utils.FormatSize(need)).
			WithContext("available", utils.FormatSize(int64(available))).
			WithSuggestion("Free up space or choose another destination")
	}
	return nil
}

// existingParent walks up from dir to the closest directory that exists
func existingParent(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		if info, err := os.Stat(abs); err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("not a directory: %s", abs)
			}
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return abs, nil
		}
		abs = parent
	}
}
