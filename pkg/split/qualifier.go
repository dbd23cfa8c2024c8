package split

import "strings"

var qualifierPrefixes = []string{"split_config.", "split_config_", "config."}

const qualifierInfix = ".config."

// ExtractQualifier returns the configuration qualifier embedded in a
// canonical name. ok is false when no config marker is present; an empty
// qualifier with ok set means the marker ended the name.
func ExtractQualifier(canonical string) (qualifier string, ok bool) {
	for _, prefix := range qualifierPrefixes {
		if hasPrefixFold(canonical, prefix) {
			return canonical[len(prefix):], true
		}
	}

	// Feature splits: split_<feature>.config.<qualifier>
	if idx := lastIndexFold(canonical, qualifierInfix); idx >= 0 {
		return canonical[idx+len(qualifierInfix):], true
	}

	return "", false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// lastIndexFold works on byte offsets of s, so marker must be ASCII.
func lastIndexFold(s, marker string) int {
	for i := len(s) - len(marker); i >= 0; i-- {
		if strings.EqualFold(s[i:i+len(marker)], marker) {
			return i
		}
	}
	return -1
}
