package split

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DeviceProfile describes what the installing device matches against
type DeviceProfile struct {
	PrimaryABI       string `json:"primary_abi" yaml:"primary_abi"`
	DensityQualifier string `json:"density" yaml:"density"`
	Language         string `json:"language" yaml:"language"`
	// Region is empty when the locale has none
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// LangRegion returns "<language>_<region>" and false when no region is set
func (d DeviceProfile) LangRegion() (string, bool) {
	if d.Region == "" {
		return "", false
	}
	return d.Language + "_" + d.Region, true
}

// String returns a short human readable form
func (d DeviceProfile) String() string {
	locale := d.Language
	if lr, ok := d.LangRegion(); ok {
		locale = lr
	}
	return fmt.Sprintf("%s/%s/%s", d.PrimaryABI, d.DensityQualifier, locale)
}

// DensityQualifier maps a raw dots-per-inch value to the nearest density
// bucket, using the midpoints between the standard buckets.
func DensityQualifier(dpi int) string {
	switch {
	case dpi <= 140:
		return "ldpi"
	case dpi <= 186:
		return "mdpi"
	case dpi <= 226:
		return "tvdpi"
	case dpi <= 280:
		return "hdpi"
	case dpi <= 400:
		return "xhdpi"
	case dpi <= 560:
		return "xxhdpi"
	default:
		return "xxxhdpi"
	}
}

// NormalizeABI converts a platform ABI name (arm64-v8a) to the form used in
// split qualifiers (arm64_v8a).
func NormalizeABI(abi string) string {
	return strings.ReplaceAll(strings.TrimSpace(abi), "-", "_")
}

// ParseLocale splits a locale such as en-US, en_US or fil into a lowercase
// language and an uppercase region. Region is empty when not given.
func ParseLocale(locale string) (lang, region string, err error) {
	clean := strings.TrimSpace(locale)
	// Drop encodings like en_US.UTF-8
	if idx := strings.Index(clean, "."); idx >= 0 {
		clean = clean[:idx]
	}
	clean = strings.ReplaceAll(clean, "_", "-")

	// Raw keeps legacy codes such as iw and in, which split names use
	tag, err := language.Raw.Parse(clean)
	if err != nil {
		return "", "", fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	base, conf := tag.Base()
	if conf == language.No {
		return "", "", fmt.Errorf("invalid locale %q: no language", locale)
	}
	lang = strings.ToLower(base.String())

	if r, conf := tag.Region(); conf == language.Exact {
		region = strings.ToUpper(r.String())
	}

	return lang, region, nil
}

// NewDeviceProfile builds a profile from raw platform values
func NewDeviceProfile(abi string, dpi int, locale string) (DeviceProfile, error) {
	lang, region, err := ParseLocale(locale)
	if err != nil {
		return DeviceProfile{}, err
	}

	return DeviceProfile{
		PrimaryABI:       NormalizeABI(abi),
		DensityQualifier: DensityQualifier(dpi),
		Language:         lang,
		Region:           region,
	}, nil
}
