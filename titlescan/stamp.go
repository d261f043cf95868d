package titlescan

import (
	"regexp"
	"strings"
)

// stampRe matches the vocabulary of drawing title blocks: revision tables,
// approval signatures, sheet/scale fields and yard department marks.
var stampRe = regexp.MustCompile(`(?i)\b(DATE|REV\.?|DESCRIPTION|OWN|CHKD\.?|APPD\.?|DWN\.?|CHKD\s*BY|APPD\s*BY|DWN\s*BY|CHKO\.?\s*BY|ISSUED\s*FOR|PLAN\s*HISTORY|SUBMITTED\s*TO|APPROVED\s*BY|SHEET(\s*NO)?|SCALE|PROJECT\s*NO|PLAN\s*NO|DWG\s*NO|DRAWING\s*NO|DEPT|DEPARTMENT|DSME)\b`)

// stampFragmentRules scrub a stamp keyword together with its trailing payload
// (initials, revision numbers, dates). Order matters: the signature-cell rules
// run before the catch-all keyword erase so the payload goes with the keyword.
var stampFragmentRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(CHKD|APPD|DWN|CHKO)\b\s*\.?\s*(BY)?\s*[:\-]?\s*[A-Z.\s]{0,15}`),
	regexp.MustCompile(`(?i)\b(OWN|REV\.?|DATE|DESCRIPTION)\b\s*[:\-]?\s*[A-Z0-9.\s]{0,15}`),
	regexp.MustCompile(`(?i)\b(ISSUED\s*FOR|PLAN\s*HISTORY|SUBMITTED\s*TO|APPROVED\s*BY)\b.*`),
}

// LooksLikeStamp reports whether a line reads like title-block stamp content
// (a revision history row, an approval signature cell) rather than title
// text. Matching is case-insensitive.
func LooksLikeStamp(line string) bool {
	up := strings.ToUpper(line)
	if stampRe.MatchString(up) {
		return true
	}
	return strings.Contains(up, "OWN CHKD APPD") || strings.Contains(up, "DATE REV")
}

// StripStampFragments deletes stamp vocabulary and its payload from a
// candidate title, then collapses the leftover whitespace. The input is ASCII
// normalized first so the byte-oriented rules see clean text.
func StripStampFragments(s string) string {
	s = NormalizeText(s)
	for _, re := range stampFragmentRules {
		s = re.ReplaceAllString(s, " ")
	}
	s = stampRe.ReplaceAllString(s, " ")
	return collapseSpaces(s)
}
