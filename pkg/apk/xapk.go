package apk

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ManifestNames are the bundle manifests written by XAPK and APKM tools
var ManifestNames = []string{"manifest.json", "info.json"}

// XAPKManifest represents the manifest.json in XAPK files
type XAPKManifest struct {
	PackageName      string `json:"package_name"`
	Name             string `json:"name"`
	VersionCode      int64  `json:"version_code"`
	VersionName      string `json:"version_name"`
	MinSDKVersion    int    `json:"min_sdk_version"`
	TargetSDKVersion int    `json:"target_sdk_version"`
	SplitAPKs        []struct {
		File string `json:"file"`
		ID   string `json:"id"`
	} `json:"split_apks"`
	SplitConfigs []string `json:"split_configs"`
}

// ParseManifest decodes an XAPK manifest. version_code may be written as a
// string by some tools.
func ParseManifest(r io.Reader) (*XAPKManifest, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	if vc, ok := raw["version_code"]; ok && len(vc) > 0 && vc[0] == '"' {
		raw["version_code"] = json.RawMessage(strings.Trim(string(vc), `"`))
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	manifest := &XAPKManifest{}
	if err := json.Unmarshal(normalized, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	return manifest, nil
}

// BaseInfo converts the manifest into the same shape Inspect returns
func (m *XAPKManifest) BaseInfo() *BaseInfo {
	return &BaseInfo{
		PackageID:   m.PackageName,
		AppName:     m.Name,
		Version:     m.VersionName,
		VersionCode: m.VersionCode,
		MinSDK:      m.MinSDKVersion,
		TargetSDK:   m.TargetSDKVersion,
	}
}

// IsManifestName reports whether an archive entry is a bundle manifest
func IsManifestName(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	for _, m := range ManifestNames {
		if base == m {
			return true
		}
	}
	return false
}

// IsArchiveFile checks if the file is an archive of split APKs
func IsArchiveFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".apks", ".xapk", ".apkm", ".zip":
		return true
	default:
		return false
	}
}

// IsAPKFile checks if the file is a single APK
func IsAPKFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".apk")
}
