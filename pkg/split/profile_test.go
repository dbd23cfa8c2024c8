package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensityQualifier(t *testing.T) {
	tests := []struct {
		dpi  int
		want string
	}{
		{0, "ldpi"},
		{120, "ldpi"},
		{140, "ldpi"},
		{141, "mdpi"},
		{160, "mdpi"},
		{186, "mdpi"},
		{187, "tvdpi"},
		{213, "tvdpi"},
		{226, "tvdpi"},
		{227, "hdpi"},
		{280, "hdpi"},
		{281, "xhdpi"},
		{320, "xhdpi"},
		{400, "xhdpi"},
		{401, "xxhdpi"},
		{480, "xxhdpi"},
		{560, "xxhdpi"},
		{561, "xxxhdpi"},
		{640, "xxxhdpi"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DensityQualifier(tt.dpi), "dpi %d", tt.dpi)
	}
}

func TestNormalizeABI(t *testing.T) {
	assert.Equal(t, "arm64_v8a", NormalizeABI("arm64-v8a"))
	assert.Equal(t, "armeabi_v7a", NormalizeABI(" armeabi-v7a\n"))
	assert.Equal(t, "x86_64", NormalizeABI("x86_64"))
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		input      string
		wantLang   string
		wantRegion string
	}{
		{"en-US", "en", "US"},
		{"en_US", "en", "US"},
		{"en_US.UTF-8", "en", "US"},
		{"fr", "fr", ""},
		{"fil", "fil", ""},
		{"zh-Hans-CN", "zh", "CN"},
		{"pt-br", "pt", "BR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lang, region, err := ParseLocale(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLang, lang)
			assert.Equal(t, tt.wantRegion, region)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, _, err := ParseLocale("")
		assert.Error(t, err)

		_, _, err = ParseLocale("not a locale!")
		assert.Error(t, err)
	})
}

func TestNewDeviceProfile(t *testing.T) {
	profile, err := NewDeviceProfile("arm64-v8a", 420, "en-US")
	require.NoError(t, err)

	assert.Equal(t, DeviceProfile{
		PrimaryABI:       "arm64_v8a",
		DensityQualifier: "xxhdpi",
		Language:         "en",
		Region:           "US",
	}, profile)
	assert.Equal(t, "arm64_v8a/xxhdpi/en_US", profile.String())

	lr, ok := profile.LangRegion()
	assert.True(t, ok)
	assert.Equal(t, "en_US", lr)

	_, err = NewDeviceProfile("x86", 160, "")
	assert.Error(t, err)
}

func TestDeviceProfileWithoutRegion(t *testing.T) {
	profile := DeviceProfile{PrimaryABI: "x86", DensityQualifier: "mdpi", Language: "de"}
	_, ok := profile.LangRegion()
	assert.False(t, ok)
	assert.Equal(t, "x86/mdpi/de", profile.String())
}
