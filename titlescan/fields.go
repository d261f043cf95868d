package titlescan

import (
	"regexp"
	"strings"
)

// FieldPattern pairs an output label with the regexp that captures its value.
// The first capture group is the value.
type FieldPattern struct {
	Label   string
	Pattern *regexp.Regexp
}

// LabelPatterns capture the labelled header fields of manuals and drawings.
// They are tried in this order both here and as an identification fallback.
var LabelPatterns = []FieldPattern{
	{"Document Title", regexp.MustCompile(`(?i)(?:Title|Manual for|Drawing Title|Plan Title)\s*[:\-]\s*([A-Z\s/&.\-]+)`)},
	{"Engine Type", regexp.MustCompile(`(?i)(?:Engine|M/E|A/E)\s*type\s*[:\-]?\s*([A-Z0-9/.\-]+)`)},
	{"Ship No", regexp.MustCompile(`(?i)(?:Ship|Hull|Project|H\.?NO\.?)\s*(?:no\.?|Number)\s*[:\-]?\s*([A-Z0-9/.\-]+)`)},
	{"Vessel Name", regexp.MustCompile(`(?i)(?:Vessel|Ship)\s*Name\s*[:\-]?\s*([A-Z\s]+)`)},
}

// MetadataPatterns capture secondary fields: document numbers, makers, models.
var MetadataPatterns = []FieldPattern{
	{"Document Number", regexp.MustCompile(`(?i)(?:Doc|DWG|Plan)\.?\s*(?:No|Number)\s*[:\-]?\s*([A-Z0-9/.\-]+)`)},
	{"Maker", regexp.MustCompile(`(?i)(?:Maker|Manufacturer|Company)\s*[:\-]?\s*([A-Z\s,]+)`)},
	{"Model", regexp.MustCompile(`(?i)(?:Model|Type)\s*[:\-]?\s*([A-Z0-9/.\-]+)`)},
}

// ExtractFields applies every pattern to the text and returns a label-to-value
// map. A label whose pattern does not match maps to "Unknown", so the result
// always has one entry per pattern.
func ExtractFields(text string, patterns []FieldPattern) map[string]string {
	out := make(map[string]string, len(patterns))
	for _, fp := range patterns {
		if m := fp.Pattern.FindStringSubmatch(text); m != nil {
			out[fp.Label] = strings.TrimSpace(m[1])
		} else {
			out[fp.Label] = "Unknown"
		}
	}
	return out
}
