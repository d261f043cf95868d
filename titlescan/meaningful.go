package titlescan

import "strings"

// extraMeaningWords supplement the system keyword table when judging a
// cleaned candidate. They cover drawing subjects that are not machinery.
var extraMeaningWords = []string{
	"PLAN", "LIST", "ARRANGEMENT", "INSTALLATION", "DOOR",
	"INSULATION", "CRANE", "BEAM", "SYSTEM", "PLANT",
}

// IsMeaningfulTitle reports whether a cleaned candidate reads like a real
// document title: a vendor-drawing "V/D of ..." form always qualifies,
// anything else needs at least three substantial words plus recognizable
// marine vocabulary.
func IsMeaningfulTitle(s string) bool {
	if s == "" {
		return false
	}
	up := strings.ToUpper(s)

	words := 0
	for _, w := range strings.Fields(s) {
		if len([]rune(w)) >= 3 {
			words++
		}
	}
	if words < 3 && !strings.HasPrefix(up, "V/D OF") {
		return false
	}
	if strings.HasPrefix(up, "V/D OF") {
		return true
	}
	if containsAnyOf(up, systemKeywords) {
		return true
	}
	return containsAnyOf(up, extraMeaningWords)
}
