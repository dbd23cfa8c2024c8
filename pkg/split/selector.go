package split

import "strings"

// SelectForDevice returns the entries that should be pre-selected for
// installation on device, in input order. When nothing could be classified
// every entry is returned.
func SelectForDevice(entries []PackageEntry, device DeviceProfile) []PackageEntry {
	if !anyClassified(entries) {
		return append([]PackageEntry(nil), entries...)
	}

	wantLanguage := languageMatcher(entries, device)

	var selected []PackageEntry
	for _, e := range entries {
		var keep bool
		switch c := e.Config.(type) {
		case ABI:
			keep = strings.EqualFold(c.Value, device.PrimaryABI)
		case Density:
			keep = isAnyDensity(c.Value) || strings.EqualFold(c.Value, device.DensityQualifier)
		case Language:
			keep = wantLanguage(c.Value)
		case None, nil:
			keep = true
		default:
			// Unknown variants are kept rather than silently dropped
			keep = true
		}
		if keep {
			selected = append(selected, e)
		}
	}
	return selected
}

func anyClassified(entries []PackageEntry) bool {
	for _, e := range entries {
		if e.Config != nil && e.Config.Kind() != KindNone {
			return true
		}
	}
	return false
}

func isAnyDensity(q string) bool {
	return strings.EqualFold(q, "nodpi") || strings.EqualFold(q, "anydpi")
}

// languageMatcher resolves the fallback chain once for the whole entry set:
// language_REGION, then language, then en, then every language split.
func languageMatcher(entries []PackageEntry, device DeviceProfile) func(string) bool {
	var present []string
	for _, e := range entries {
		if l, ok := e.Config.(Language); ok {
			present = append(present, l.Value)
		}
	}

	has := func(want string) bool {
		for _, q := range present {
			if strings.EqualFold(q, want) {
				return true
			}
		}
		return false
	}

	var candidates []string
	if lr, ok := device.LangRegion(); ok {
		candidates = append(candidates, lr)
	}
	candidates = append(candidates, device.Language, "en")

	for _, want := range candidates {
		if want != "" && has(want) {
			target := want
			return func(q string) bool { return strings.EqualFold(q, target) }
		}
	}

	return func(string) bool { return true }
}
