package split

import "strings"

// PackageExt is the extension carried by every installable package file
const PackageExt = ".apk"

const separators = "-_"

// StripExt removes a trailing package extension, ignoring case
func StripExt(name string) string {
	if len(name) >= len(PackageExt) && strings.EqualFold(name[len(name)-len(PackageExt):], PackageExt) {
		return name[:len(name)-len(PackageExt)]
	}
	return name
}

// ComputeCanonicalNames strips the extension and the tool-added prefix/suffix
// shared by every name. The result has the same length and order as names.
func ComputeCanonicalNames(names []string) []string {
	stems := make([]string, len(names))
	for i, name := range names {
		stems[i] = StripExt(name)
	}

	// A single name gives nothing to compare against
	if len(stems) < 2 {
		return stems
	}

	prefix := commonPrefix(stems)
	if idx := strings.LastIndexAny(prefix, separators); idx >= 0 {
		prefix = prefix[:idx+1]
	} else {
		prefix = ""
	}

	for i := range stems {
		stems[i] = stems[i][len(prefix):]
	}

	suffix := commonSuffix(stems)
	if idx := strings.IndexAny(suffix, separators); idx >= 0 {
		suffix = suffix[idx:]
	} else {
		suffix = ""
	}

	for i := range stems {
		stems[i] = stems[i][:len(stems[i])-len(suffix)]
	}

	return stems
}

// commonPrefix compares column by column until a mismatch or the shortest
// string runs out.
func commonPrefix(values []string) string {
	first := values[0]
	n := len(first)
	for _, v := range values[1:] {
		if len(v) < n {
			n = len(v)
		}
		for i := 0; i < n; i++ {
			if v[i] != first[i] {
				n = i
				break
			}
		}
		if n == 0 {
			return ""
		}
	}
	return first[:n]
}

func commonSuffix(values []string) string {
	first := values[0]
	n := len(first)
	for _, v := range values[1:] {
		if len(v) < n {
			n = len(v)
		}
		for i := 1; i <= n; i++ {
			if v[len(v)-i] != first[len(first)-i] {
				n = i - 1
				break
			}
		}
		if n == 0 {
			return ""
		}
	}
	return first[len(first)-n:]
}
