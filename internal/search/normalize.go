package search

import "strings"

// kabupaten names come prefixed with the administrative type, e.g.
// "KAB. BOYOLALI" or "KOTA YOGYAKARTA". Comparison strips the prefix.
var kabupatenPrefixes = []string{"KAB.", "KAB ", "KOTA.", "KOTA "}

// Fold canonicalizes text for case-insensitive comparison. It is total:
// empty or absent text folds to the empty string.
func Fold(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// CleanKabupaten folds a district name after stripping a leading
// administrative prefix, so "KAB. BOYOLALI" compares equal to "boyolali".
func CleanKabupaten(text string) string {
	s := strings.TrimSpace(text)
	upper := strings.ToUpper(s)
	for _, prefix := range kabupatenPrefixes {
		if strings.HasPrefix(upper, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimLeft(s, ". ")
	return Fold(s)
}

// TokenSet is a set of normalized query tokens. An empty set means the
// filter it belongs to is not applied.
type TokenSet map[string]struct{}

// Tokenize splits a query string on whitespace into a set of folded,
// non-empty tokens. Duplicates collapse; order is irrelevant.
func Tokenize(text string) TokenSet {
	tokens := TokenSet{}
	for _, field := range strings.Fields(text) {
		if token := Fold(field); token != "" {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}

// Empty reports whether the set holds no tokens.
func (t TokenSet) Empty() bool {
	return len(t) == 0
}
