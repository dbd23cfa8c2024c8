package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractQualifier(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"split_config.en", "en", true},
		{"split_config_arm64_v8a", "arm64_v8a", true},
		{"config.xxhdpi", "xxhdpi", true},
		{"SPLIT_CONFIG.EN_us", "EN_us", true},
		{"split_phonesky_webrtc_native_lib.config.x86", "x86", true},
		{"feature.CONFIG.fr", "fr", true},
		{"a.config.b.config.c", "c", true},
		{"split_config.", "", true},
		{"unrelated_name", "", false},
		{"base", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ExtractQualifier(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		qualifier string
		want      ConfigType
	}{
		{"x86_64", ABI{Value: "x86_64"}},
		{"ARM64_V8A", ABI{Value: "ARM64_V8A"}},
		{"armeabi", ABI{Value: "armeabi"}},
		{"xxhdpi", Density{Value: "xxhdpi"}},
		{"NoDpi", Density{Value: "NoDpi"}},
		{"en_US", Language{Value: "en_US"}},
		{"en", Language{Value: "en"}},
		{"fil", Language{Value: "fil"}},
		{"en_us", None{}},
		{"EN", None{}},
		{"foo", None{}},
		{"xyz_US", None{}},
		{"zz", None{}},
		{"iw", Language{Value: "iw"}},
		{"in_ID", Language{Value: "in_ID"}},
		{"", None{}},
	}

	for _, tt := range tests {
		t.Run(tt.qualifier, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.qualifier))
		})
	}
}

func TestKindLabels(t *testing.T) {
	assert.Equal(t, "abi", ABI{}.Kind().String())
	assert.Equal(t, "density", Density{}.Kind().String())
	assert.Equal(t, "language", Language{}.Kind().String())
	assert.Equal(t, "none", None{}.Kind().String())
	assert.Equal(t, "", None{}.Qualifier())
}

func TestResolveBase(t *testing.T) {
	t.Run("single base name", func(t *testing.T) {
		assert.Equal(t, map[string]struct{}{"base.apk": {}}, ResolveBase([]string{"base.apk"}))
	})

	t.Run("single base name ignores case", func(t *testing.T) {
		assert.Contains(t, ResolveBase([]string{"Base.APK"}), "Base.APK")
	})

	t.Run("single non base name", func(t *testing.T) {
		assert.Empty(t, ResolveBase([]string{"app.apk"}))
	})

	t.Run("no names", func(t *testing.T) {
		assert.Empty(t, ResolveBase(nil))
	})

	t.Run("affixes are stripped", func(t *testing.T) {
		got := ResolveBase([]string{"base-430-lspatched.apk", "split_config_arm64_v8a-430-lspatched.apk"})
		assert.Equal(t, map[string]struct{}{"base-430-lspatched.apk": {}}, got)
	})

	t.Run("no base among splits", func(t *testing.T) {
		assert.Empty(t, ResolveBase([]string{"split_config.en.apk", "split_config.x86.apk"}))
	})

	t.Run("multiple bases are kept", func(t *testing.T) {
		got := ResolveBase([]string{"a_base.apk", "a_BASE.apk", "a_split_config.en.apk"})
		assert.Len(t, got, 2)
	})

	t.Run("precomputed canonical names", func(t *testing.T) {
		names := []string{"app-base.apk", "app-split_config.en.apk"}
		canonical := ComputeCanonicalNames(names)
		assert.Equal(t, ResolveBase(names), ResolveBaseCanonical(names, canonical))
		assert.Contains(t, ResolveBaseCanonical(names, canonical), "app-base.apk")
	})
}

func TestEnrichEntries(t *testing.T) {
	raw := []RawEntry{
		{Name: "split_config.en.apk", Size: 10},
		{Name: "base.apk", Size: 100},
		{Name: "split_config.arm64_v8a.apk", Size: 20},
		{Name: "split_config.xxhdpi.apk", Size: 5},
		{Name: "feature.apk", Size: 7},
	}

	entries := EnrichEntries(raw)
	require.Len(t, entries, 5)

	assert.Equal(t, PackageEntry{Name: "base.apk", Size: 100, IsBase: true, Config: None{}}, entries[0])
	assert.Equal(t, PackageEntry{Name: "feature.apk", Size: 7, Config: None{}}, entries[1])
	assert.Equal(t, PackageEntry{Name: "split_config.arm64_v8a.apk", Size: 20, Config: ABI{Value: "arm64_v8a"}}, entries[2])
	assert.Equal(t, PackageEntry{Name: "split_config.en.apk", Size: 10, Config: Language{Value: "en"}}, entries[3])
	assert.Equal(t, PackageEntry{Name: "split_config.xxhdpi.apk", Size: 5, Config: Density{Value: "xxhdpi"}}, entries[4])
}

func TestEnrichEntriesWithAffixes(t *testing.T) {
	raw := []RawEntry{
		{Name: "split_config_arm64_v8a-430-lspatched.apk"},
		{Name: "base-430-lspatched.apk"},
		{Name: "split_config_xhdpi-430-lspatched.apk"},
	}

	entries := EnrichEntries(raw)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].IsBase)
	assert.Equal(t, "base-430-lspatched.apk", entries[0].Name)
	assert.Equal(t, ABI{Value: "arm64_v8a"}, entries[1].Config)
	assert.Equal(t, Density{Value: "xhdpi"}, entries[2].Config)
}

func TestEnrichEntriesEmptyQualifier(t *testing.T) {
	entries := EnrichEntries([]RawEntry{{Name: "base.apk"}, {Name: "split_config..apk"}})
	require.Len(t, entries, 2)
	assert.Equal(t, None{}, entries[1].Config)
	assert.False(t, entries[1].IsBase)
}

func TestBaseEntries(t *testing.T) {
	entries := EnrichEntries([]RawEntry{{Name: "split_config.en.apk"}, {Name: "base.apk"}})
	base := BaseEntries(entries)
	require.Len(t, base, 1)
	assert.Equal(t, "base.apk", base[0].Name)
}
