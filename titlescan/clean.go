package titlescan

import (
	"regexp"
	"strings"
)

// maxCleanPasses bounds the rewrite loop in CleanManualName. The pipeline
// reaches a fixed point in two or three passes on real documents; the cap
// guarantees termination on any input.
const maxCleanPasses = 10

var (
	// edgeTrimRe peels punctuation off both ends of a candidate, keeping
	// slashes, ampersands and parens that belong to marine abbreviations.
	edgeTrimRe = regexp.MustCompile(`^[^A-Za-z0-9/&()]+|[^A-Za-z0-9/&()]+$`)

	// junkPrefixRe strips boilerplate lead-ins. Vendor-drawing markers
	// (V/D and its spellings) are deliberately absent: they carry meaning
	// and stay part of the title.
	junkPrefixRe = regexp.MustCompile(`(?i)^(?:Manual for|Instruction for|Technical Manual for|Title|Ref|Technical|for|Instruction Manual -|Final & Instruction Manual for|Final Drawings|Instruction Manual|Technical Specification of|TITLE:|TITLE|DRAWING OF|DRAW I NG OF|VENDOR DWG OF|VENDOR DWG|DWG OF|VENDOR DRAWING OF|VENDOR DRAWING)[\s:\-._]+`)

	telTailRe        = regexp.MustCompile(`(?i)\s*\(?\bT\s?E\s?L\b:?.*`)
	electricalTailRe = regexp.MustCompile(`(?i)\s*\(?\b\d+(?:V|PH|HZ|KW)\b.*`)
	nonAlnumRe       = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// rejectedTitles are cleaned results with no information content.
var rejectedTitles = map[string]bool{
	"TITLE":   true,
	"MANUAL":  true,
	"REF":     true,
	"PROJECT": true,
	"DWG":     true,
	"PLAN":    true,
}

// titlePreserve tokens stay upper case through smart casing.
var titlePreserve = map[string]bool{
	"E/R":     true,
	"ICCP":    true,
	"MGPS":    true,
	"M.G.P.S": true,
	"V/V":     true,
	"V/D":     true,
}

var vdOfLeadRe = regexp.MustCompile(`(?i)^V/D\s+Of\b`)

// CleanManualName turns a raw candidate line into a presentable title. It
// repeatedly trims edge punctuation, slices from the first anchor word,
// strips stamp fragments, drops garbage tokens, canonicalizes vocabulary and
// removes boilerplate prefixes until the text stops changing, then cuts
// phone-number and electrical-rating tails and applies smart casing. Returns
// the empty string when nothing presentable is left.
func CleanManualName(name string) string {
	if name == "" {
		return ""
	}

	name = NormalizeTitleTerms(name)

	for pass := 0; pass < maxCleanPasses; pass++ {
		prev := name

		name = strings.TrimSpace(edgeTrimRe.ReplaceAllString(name, ""))
		name = SliceFromFirstAnchor(name)
		name = StripStampFragments(name)
		name = DropGarbageTokens(name)
		name = NormalizeTitleTerms(name)
		name = strings.TrimSpace(junkPrefixRe.ReplaceAllString(name, ""))

		if name == prev {
			break
		}
	}

	name = strings.TrimSpace(telTailRe.ReplaceAllString(name, ""))
	name = strings.TrimSpace(electricalTailRe.ReplaceAllString(name, ""))

	name = strings.TrimSpace(edgeTrimRe.ReplaceAllString(name, ""))
	name = collapseSpaces(name)

	alnum := nonAlnumRe.ReplaceAllString(name, "")
	if len(alnum) < 4 || rejectedTitles[strings.ToUpper(name)] {
		return ""
	}

	return smartTitle(name)
}

// smartTitle title-cases a cleaned name while keeping marine abbreviations
// upper case: preserved tokens and short all-caps words stay verbatim, the
// rest get an initial capital. A leading "V/D Of" is fixed to "V/D of".
func smartTitle(s string) string {
	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		wu := strings.ToUpper(w)
		switch {
		case titlePreserve[wu]:
			out = append(out, wu)
		case isUpperToken(w) && len([]rune(w)) <= 4:
			out = append(out, w)
		default:
			out = append(out, capitalize(w))
		}
	}
	return vdOfLeadRe.ReplaceAllString(strings.Join(out, " "), "V/D of")
}
