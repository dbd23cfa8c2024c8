package apk

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shogo82148/androidbinary/apk"
)

// MaxInspectSize bounds how much of a base APK is buffered for inspection
const MaxInspectSize = 512 << 20

// BaseInfo is the manifest data read from a base APK
type BaseInfo struct {
	PackageID   string `json:"package_id" yaml:"package_id"`
	AppName     string `json:"app_name,omitempty" yaml:"app_name,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	VersionCode int64  `json:"version_code" yaml:"version_code"`
	MinSDK      int    `json:"min_sdk,omitempty" yaml:"min_sdk,omitempty"`
	TargetSDK   int    `json:"target_sdk,omitempty" yaml:"target_sdk,omitempty"`
}

// Inspect parses the AndroidManifest of a base APK read from r. The APK is
// buffered in memory because it usually lives inside another archive.
func Inspect(r io.Reader, size int64) (*BaseInfo, error) {
	if size > MaxInspectSize {
		return nil, fmt.Errorf("base APK too large to inspect: %d bytes", size)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxInspectSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read base APK: %w", err)
	}

	pkg, err := apk.OpenZipReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open base APK: %w", err)
	}
	defer pkg.Close()

	manifest := pkg.Manifest()

	info := &BaseInfo{
		PackageID:   manifest.Package.MustString(),
		Version:     manifest.VersionName.MustString(),
		VersionCode: int64(manifest.VersionCode.MustInt32()),
		MinSDK:      extractMinSDK(&manifest),
		TargetSDK:   extractTargetSDK(&manifest),
	}

	// Labels are often resource references that need the resource table
	if label, err := manifest.App.Label.String(); err == nil && label != "" {
		info.AppName = label
	}

	return info, nil
}

func extractMinSDK(manifest *apk.Manifest) int {
	if minSDK, err := manifest.SDK.Min.Int32(); err == nil {
		return int(minSDK)
	}
	return 1
}

func extractTargetSDK(manifest *apk.Manifest) int {
	if targetSDK, err := manifest.SDK.Target.Int32(); err == nil {
		return int(targetSDK)
	}
	return 0
}
