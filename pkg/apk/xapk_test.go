package apk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	t.Run("numeric version code", func(t *testing.T) {
		m, err := ParseManifest(strings.NewReader(`{
			"package_name": "com.example.app",
			"name": "Example",
			"version_code": 42,
			"version_name": "1.4.2",
			"min_sdk_version": 24,
			"target_sdk_version": 34,
			"split_apks": [{"file": "base.apk", "id": "base"}, {"file": "config.en.apk", "id": "config.en"}],
			"split_configs": ["config.en"]
		}`))
		require.NoError(t, err)

		assert.Equal(t, "com.example.app", m.PackageName)
		assert.Equal(t, int64(42), m.VersionCode)
		require.Len(t, m.SplitAPKs, 2)
		assert.Equal(t, "config.en.apk", m.SplitAPKs[1].File)

		info := m.BaseInfo()
		assert.Equal(t, &BaseInfo{
			PackageID:   "com.example.app",
			AppName:     "Example",
			Version:     "1.4.2",
			VersionCode: 42,
			MinSDK:      24,
			TargetSDK:   34,
		}, info)
	})

	t.Run("string version code", func(t *testing.T) {
		m, err := ParseManifest(strings.NewReader(`{"package_name": "a.b", "version_code": "1007"}`))
		require.NoError(t, err)
		assert.Equal(t, int64(1007), m.VersionCode)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseManifest(strings.NewReader(`{not json`))
		assert.Error(t, err)
	})
}

func TestFileKinds(t *testing.T) {
	assert.True(t, IsArchiveFile("app.APKS"))
	assert.True(t, IsArchiveFile("dir/app.xapk"))
	assert.True(t, IsArchiveFile("app.apkm"))
	assert.True(t, IsArchiveFile("app.zip"))
	assert.False(t, IsArchiveFile("app.apk"))

	assert.True(t, IsAPKFile("base.APK"))
	assert.False(t, IsAPKFile("base.apks"))

	assert.True(t, IsManifestName("manifest.json"))
	assert.True(t, IsManifestName("Info.JSON"))
	assert.False(t, IsManifestName("icon.png"))
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect(strings.NewReader("definitely not a zip"), 20)
	assert.Error(t, err)

	_, err = Inspect(strings.NewReader(""), MaxInspectSize+1)
	assert.ErrorContains(t, err, "too large")
}
