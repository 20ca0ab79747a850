package strings

import "strings"

// `TrimPrefixAll` returns string `s` without provided `prefix`es.
// If `prefix`es are repeated, all of them are removed.
//
// example:
//
//	TrimPrefixAll("aaabbbccc", "aaab")  // -> "bbccc"
//	TrimPrefixAll("aaabbbccc", "a")     // -> "bbbccc"
//	TrimPrefixAll("aaabbbccc", "x")     // -> "aaabbbccc"
func TrimPrefixAll(s, prefix string) string {
	if prefix == "" {
		return s
	}
	for strings.HasPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	return s
}

// SupplySuffix returns text ending with suffix, adding suffix only when
// text does not end with it.
func SupplySuffix(text, suffix string) string {
	if strings.HasSuffix(text, suffix) {
		return text
	}
	return text + suffix
}
