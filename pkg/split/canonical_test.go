package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCanonicalNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
		{
			name:  "single name keeps stem",
			input: []string{"My_App.APK"},
			want:  []string{"My_App"},
		},
		{
			name:  "standard bundle output",
			input: []string{"base.apk", "split_config.arm64_v8a.apk", "split_config.en.apk"},
			want:  []string{"base", "split_config.arm64_v8a", "split_config.en"},
		},
		{
			name:  "patched suffix is removed",
			input: []string{"base-430-lspatched.apk", "split_config_arm64_v8a-430-lspatched.apk"},
			want:  []string{"base", "split_config_arm64_v8a"},
		},
		{
			name:  "shared prefix and suffix",
			input: []string{"com.app-1.0_base_signed.apk", "com.app-1.0_split_config.en_signed.apk"},
			want:  []string{"base", "split_config.en"},
		},
		{
			name:  "prefix truncated back to separator",
			input: []string{"split_config_arm.apk", "split_config_armv7.apk"},
			want:  []string{"arm", "armv7"},
		},
		{
			name:  "suffix truncated forward to separator",
			input: []string{"fooa-sig.apk", "bara-sig.apk"},
			want:  []string{"fooa", "bara"},
		},
		{
			name:  "no separator in common prefix",
			input: []string{"abc.apk", "abd.apk"},
			want:  []string{"abc", "abd"},
		},
		{
			name:  "no separator in common suffix",
			input: []string{"base-release.apk", "config.x86-prerelease.apk"},
			want:  []string{"base-release", "config.x86-prerelease"},
		},
		{
			name:  "extension is case insensitive and optional",
			input: []string{"app_base.APK", "app_split_config.en.apk", "app_notes"},
			want:  []string{"base", "split_config.en", "notes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeCanonicalNames(tt.input))
		})
	}
}

func TestComputeCanonicalNamesKeepsDistinctNames(t *testing.T) {
	input := []string{
		"pkg-v2_base-signed.apk",
		"pkg-v2_split_config.x86-signed.apk",
		"pkg-v2_split_config.xxhdpi-signed.apk",
		"pkg-v2_split_config.fr-signed.apk",
	}

	got := ComputeCanonicalNames(input)
	assert.Len(t, got, len(input))

	seen := make(map[string]struct{})
	for _, name := range got {
		_, dup := seen[name]
		assert.False(t, dup, "duplicate canonical name %q", name)
		seen[name] = struct{}{}
	}
	assert.Equal(t, "base", got[0])
	assert.Equal(t, "split_config.x86", got[1])
}

func TestStripExt(t *testing.T) {
	assert.Equal(t, "base", StripExt("base.apk"))
	assert.Equal(t, "base", StripExt("base.ApK"))
	assert.Equal(t, "base.obb", StripExt("base.obb"))
	assert.Equal(t, "", StripExt(".apk"))
	assert.Equal(t, "pk", StripExt("pk"))
}
