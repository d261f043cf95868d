package titlescan

import (
	"regexp"
	"strings"
)

// allCapsKeep lists short all-caps tokens that are real marine abbreviations
// rather than OCR junk.
var allCapsKeep = map[string]bool{
	"MAIN": true,
	"AUX":  true,
	"E/R":  true,
	"ICCP": true,
	"MGPS": true,
	"V/V":  true,
	"V/D":  true,
}

var (
	punctOnlyRe    = regexp.MustCompile(`^[\W_]{2,}$`)
	threeLettersRe = regexp.MustCompile(`[A-Za-z]{3,}`)
)

// DropGarbageTokens rebuilds a candidate title from its tokens, keeping only
// the ones that read like words. Connectives are normalized to lower case,
// engine-room and vendor-drawing abbreviations are kept in canonical form,
// and everything that looks like OCR debris (bare punctuation, stray initials,
// vowelless letter salad, digit-heavy fragments) is dropped.
func DropGarbageTokens(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	kept := make([]string, 0, len(fields))
	for _, t := range fields {
		tu := strings.ToUpper(t)

		switch tu {
		case "AND":
			kept = append(kept, "and")
			continue
		case "OF", "FOR", "IN":
			kept = append(kept, strings.ToLower(tu))
			continue
		case "E/R", "E-R":
			kept = append(kept, "E/R")
			continue
		case "V/D":
			kept = append(kept, "V/D")
			continue
		}

		if punctOnlyRe.MatchString(t) {
			continue
		}
		n := len([]rune(t))
		if n <= 2 && tu != "ER" {
			continue
		}
		if strings.ContainsAny(t, "\"',`") && alphaRatio(t) < 0.70 {
			continue
		}
		// drops OLT/COL/DOL style fragments
		if isUpperToken(t) && n >= 3 && n <= 4 && !allCapsKeep[tu] && tu != "PLAN" && tu != "ROOM" {
			continue
		}
		if n >= 3 && isAlphaToken(t) && !hasVowel(t) && !allCapsKeep[tu] {
			continue
		}
		if alphaRatio(t) < 0.25 && !threeLettersRe.MatchString(t) {
			continue
		}
		if strings.ContainsAny(t, ":;") && alphaRatio(t) < 0.45 {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}
