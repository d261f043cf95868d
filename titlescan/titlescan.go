// Package titlescan extracts equipment/system titles and document types from
// the noisy text of scanned ship engineering documents.
//
// Scanned manuals and drawings arrive as OCR soup: stamp boxes, revision
// tables, multi-column artifacts and broken tokens surround the real title.
// The pipeline copes through layered heuristics — abbreviation
// canonicalization, anchor-word slicing, stamp stripping, garbage-token
// filtering — and a fixed-precedence strategy chain over the text, the
// filename, the parent folder and embedded metadata. The first strategy
// producing a meaningful title wins.
//
// Every function is pure and total: malformed input yields "no signal"
// results (empty string, "Unknown", false), never an error. All keyword
// tables are package-level, read-only and initialized once, so the package
// is safe for concurrent use from any number of goroutines.
//
// Usage:
//
//	name := titlescan.IdentifyManualName(text, "M(A)-12 COOLER.pdf", "/ships/hull1", meta)
//	docType := titlescan.ClassifyDocType(text, "M(A)-12 COOLER.pdf", "/ships/hull1")
//	conf, clues := titlescan.ScoreConfidence(text, name, "M(A)-12 COOLER.pdf", "/ships/hull1", meta)
package titlescan

import (
	"path/filepath"
	"strings"
	"unicode"
)

// folderBase is the last path element of folderPath, or "" when the path is
// empty or has no named element.
func folderBase(folderPath string) string {
	if folderPath == "" {
		return ""
	}
	base := filepath.Base(folderPath)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// alphaRatio is the fraction of letters in s, used to tell real text from
// OCR noise. Empty strings score zero.
func alphaRatio(s string) float64 {
	if s == "" {
		return 0
	}
	letters, total := 0, 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) / float64(total)
}

func hasVowel(s string) bool {
	return strings.ContainsAny(strings.ToUpper(s), "AEIOU")
}

// isUpperToken reports whether s has at least one letter and no lowercase
// letters. Digits and punctuation are ignored, so "AB-1" counts as upper.
func isUpperToken(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func isAlphaToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAnyOf(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
