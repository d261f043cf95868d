package titlescan

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds text down to clean single-spaced ASCII: Unicode NFKD
// decomposition, every non-ASCII remnant dropped, NUL bytes treated as
// whitespace, whitespace runs collapsed to single spaces, edges trimmed.
// Never fails; empty input yields the empty string.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	folded := strings.ReplaceAll(b.String(), "\x00", " ")
	return collapseSpaces(folded)
}
