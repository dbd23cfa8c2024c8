// Package system locates external tools and checks local resources.
package system

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/huanfeng/apkhub-split/internal/errors"
)

// DefaultADB is the adb command name looked up on PATH
const DefaultADB = "adb"

// LocateADB resolves the adb binary. A configured path other than the bare
// command name must exist. Otherwise PATH is searched, then the usual SDK
// install locations.
func LocateADB(configured string) (string, error) {
	if configured != "" && configured != DefaultADB {
		if _, err := os.Stat(configured); err != nil {
			return "", errors.NewFileSystemError(errors.CodeADBNotFound, "configured adb not found", err).
				WithContext("path", configured).
				WithSuggestion("Fix adb.path in the config file or remove it to search PATH")
		}
		return configured, nil
	}

	if path, err := exec.LookPath(DefaultADB); err == nil {
		return path, nil
	}

	for _, candidate := range commonADBPaths() {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", errors.NewNotFoundError(errors.CodeADBNotFound, "adb not found in PATH or common locations").
		WithSuggestion("Install Android SDK Platform Tools").
		WithSuggestion("Or set adb.path in the config file")
}

func commonADBPaths() []string {
	exe := "adb"
	if runtime.GOOS == "windows" {
		exe = "adb.exe"
	}

	var paths []string
	for _, env := range []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"} {
		if root := os.Getenv(env); root != "" {
			paths = append(paths, filepath.Join(root, "platform-tools", exe))
		}
	}

	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "linux":
		paths = append(paths,
			"/usr/bin/adb",
			"/usr/local/bin/adb",
			"/opt/android-sdk/platform-tools/adb",
		)
		if home != "" {
			paths = append(paths,
				filepath.Join(home, "Android/Sdk/platform-tools/adb"),
				filepath.Join(home, ".android-sdk/platform-tools/adb"),
			)
		}

	case "darwin":
		paths = append(paths,
			"/usr/local/bin/adb",
			"/opt/homebrew/bin/adb",
		)
		if home != "" {
			paths = append(paths, filepath.Join(home, "Library/Android/sdk/platform-tools/adb"))
		}

	case "windows":
		paths = append(paths, `C:\Android\Sdk\platform-tools\adb.exe`)
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			paths = append(paths, filepath.Join(localAppData, `Android\Sdk\platform-tools\adb.exe`))
		}
	}

	return paths
}
