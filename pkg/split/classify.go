package split

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Kind identifies the purpose of a split package
type Kind int

const (
	KindNone Kind = iota
	KindABI
	KindDensity
	KindLanguage
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindABI:
		return "abi"
	case KindDensity:
		return "density"
	case KindLanguage:
		return "language"
	default:
		return "none"
	}
}

// ConfigType is the classification of a package entry. The set of variants
// is closed: ABI, Density, Language and None.
type ConfigType interface {
	Kind() Kind
	// Qualifier is empty for None
	Qualifier() string
	configType()
}

// ABI is a native library split, e.g. arm64_v8a
type ABI struct{ Value string }

// Density is a screen density resource split, e.g. xxhdpi
type Density struct{ Value string }

// Language is a locale resource split, e.g. en or en_US
type Language struct{ Value string }

// None marks the base package and anything that could not be classified
type None struct{}

func (ABI) Kind() Kind      { return KindABI }
func (Density) Kind() Kind  { return KindDensity }
func (Language) Kind() Kind { return KindLanguage }
func (None) Kind() Kind     { return KindNone }

func (a ABI) Qualifier() string      { return a.Value }
func (d Density) Qualifier() string  { return d.Value }
func (l Language) Qualifier() string { return l.Value }
func (None) Qualifier() string       { return "" }

func (ABI) configType()      {}
func (Density) configType()  {}
func (Language) configType() {}
func (None) configType()     {}

var abiQualifiers = map[string]struct{}{
	"arm64_v8a":   {},
	"armeabi_v7a": {},
	"armeabi":     {},
	"x86":         {},
	"x86_64":      {},
	"mips":        {},
	"mips64":      {},
}

var densityQualifiers = map[string]struct{}{
	"ldpi":    {},
	"mdpi":    {},
	"tvdpi":   {},
	"hdpi":    {},
	"xhdpi":   {},
	"xxhdpi":  {},
	"xxxhdpi": {},
	"nodpi":   {},
	"anydpi":  {},
}

var localePattern = regexp.MustCompile(`^[a-z]{2,3}(_[A-Z]{2})?$`)

// Classify maps a qualifier to its config type. ABI wins over density,
// density over language.
func Classify(qualifier string) ConfigType {
	if qualifier == "" {
		return None{}
	}

	lower := strings.ToLower(qualifier)
	if _, ok := abiQualifiers[lower]; ok {
		return ABI{Value: qualifier}
	}
	if _, ok := densityQualifiers[lower]; ok {
		return Density{Value: qualifier}
	}
	if localePattern.MatchString(qualifier) && isLanguageCode(qualifier) {
		return Language{Value: qualifier}
	}
	return None{}
}

// isLanguageCode reports whether the language part of a lang or lang_REGION
// qualifier is a registered ISO 639 code.
func isLanguageCode(qualifier string) bool {
	lang, _, _ := strings.Cut(qualifier, "_")
	_, err := language.ParseBase(lang)
	return err == nil
}

// RawEntry is a package file as reported by the scanning layer
type RawEntry struct {
	Name string
	Size int64
}

// PackageEntry is a classified package file
type PackageEntry struct {
	Name   string
	Size   int64
	IsBase bool
	Config ConfigType
}

// ResolveBase returns the names that denote the base package. More than one
// name can be returned for degenerate input.
func ResolveBase(names []string) map[string]struct{} {
	return ResolveBaseCanonical(names, ComputeCanonicalNames(names))
}

// ResolveBaseCanonical is ResolveBase for callers that already hold the
// canonical names of names, index for index.
func ResolveBaseCanonical(names, canonical []string) map[string]struct{} {
	base := make(map[string]struct{})

	if len(names) == 1 {
		if strings.EqualFold(names[0], "base"+PackageExt) {
			base[names[0]] = struct{}{}
		}
		return base
	}

	for i, name := range names {
		if strings.EqualFold(canonical[i], "base") {
			base[name] = struct{}{}
		}
	}
	return base
}

// EnrichEntries classifies every raw entry and orders the result with base
// entries first, then by name.
func EnrichEntries(raw []RawEntry) []PackageEntry {
	names := make([]string, len(raw))
	for i, r := range raw {
		names[i] = r.Name
	}

	canonical := ComputeCanonicalNames(names)
	base := ResolveBaseCanonical(names, canonical)

	entries := make([]PackageEntry, len(raw))
	for i, r := range raw {
		entry := PackageEntry{Name: r.Name, Size: r.Size, Config: None{}}
		if _, ok := base[r.Name]; ok {
			entry.IsBase = true
		} else if qualifier, ok := ExtractQualifier(canonical[i]); ok {
			entry.Config = Classify(qualifier)
		}
		entries[i] = entry
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsBase != entries[j].IsBase {
			return entries[i].IsBase
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}

// BaseEntries returns the entries flagged as base, in order
func BaseEntries(entries []PackageEntry) []PackageEntry {
	var base []PackageEntry
	for _, e := range entries {
		if e.IsBase {
			base = append(base, e)
		}
	}
	return base
}
