package titlescan

import (
	"path/filepath"
	"regexp"
	"strings"
)

// maxScanLines caps how much of a document the line strategies will read.
const maxScanLines = 900

var (
	drawingPrefixRe      = regexp.MustCompile(`(?i)^[A-Z]+\([A-Z]\)-\d+`)
	drawingPrefixStripRe = regexp.MustCompile(`(?i)^[A-Z]+\([A-Z]\)-\d+\s*`)
	vendorDrawingRe      = regexp.MustCompile(`(?i)\bV\s*[-./]?\s*D\s*OF\b`)
	titleLabelRe         = regexp.MustCompile(`(?i)\bTITLE\b\s*[:\-]?`)
	mergedTitleRe        = regexp.MustCompile(`(?i)TITLE`)
)

// titleContext carries everything the identification strategies look at.
type titleContext struct {
	text       string
	lines      []string
	stem       string
	folderName string
	fnClean    string
	drawing    bool // filename carries an M(A)-12 style yard drawing prefix
	metadata   map[string]string
}

// nameStrategy is one way of finding a title. Strategies clean their own
// candidate and, except for the filename ones, gate it through
// IsMeaningfulTitle before answering.
type nameStrategy struct {
	name string
	try  func(*titleContext) string
}

// nameStrategies run in order; the first non-empty answer wins. Filename
// evidence outranks body text, body text outranks labels and PDF metadata.
var nameStrategies = []nameStrategy{
	{"drawing-filename", tryDrawingFilename},
	{"vendor-filename", tryVendorFilename},
	{"title-block", tryTitleBlock},
	{"merged-title-line", tryMergedTitleLine},
	{"keyword-scan", tryKeywordScan},
	{"label-patterns", tryLabelPatterns},
	{"metadata-title", tryMetadataTitle},
}

// IdentifyManualName extracts the manual, equipment or system name a document
// is about. It works through the strategy chain on the extracted text, the
// file name, the containing folder name and the document metadata (under the
// generic "Title" key), and falls back to a folder-plus-filename combination
// when nothing better surfaces. The result is cleaned and smart-cased;
// the empty string means no usable name was found. Never fails.
func IdentifyManualName(text, filename, folderPath string, metadata map[string]string) string {
	tc := newTitleContext(text, filename, folderPath, metadata)
	for _, s := range nameStrategies {
		if got := s.try(tc); got != "" {
			return got
		}
	}
	return tryFolderFallback(tc)
}

func newTitleContext(text, filename, folderPath string, metadata map[string]string) *titleContext {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, min(len(raw), maxScanLines))
	for _, ln := range raw {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		lines = append(lines, ln)
		if len(lines) == maxScanLines {
			break
		}
	}

	stem := ""
	if filename != "" {
		base := filepath.Base(filename)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
		if stem == "" {
			stem = base
		}
	}

	fnClean := strings.TrimSpace(drawingPrefixStripRe.ReplaceAllString(stem, ""))
	fnClean = strings.ReplaceAll(fnClean, "_", " ")
	fnClean = strings.ReplaceAll(fnClean, "-", " ")
	fnClean = collapseSpaces(fnClean)

	return &titleContext{
		text:       text,
		lines:      lines,
		stem:       stem,
		folderName: folderBase(folderPath),
		fnClean:    fnClean,
		drawing:    drawingPrefixRe.MatchString(stem),
		metadata:   metadata,
	}
}

// tryDrawingFilename trusts the filename of M(A)-12 style yard drawings when
// enough real words remain after the prefix is stripped.
func tryDrawingFilename(tc *titleContext) string {
	if !tc.drawing {
		return ""
	}
	words := 0
	for _, w := range strings.Fields(tc.fnClean) {
		if len([]rune(w)) >= 2 {
			words++
		}
	}
	if words < 2 {
		return ""
	}
	return CleanManualName(tc.fnClean)
}

// tryVendorFilename handles vendor drawing filenames that spell out
// "V-D OF ..." in some form.
func tryVendorFilename(tc *titleContext) string {
	if !vendorDrawingRe.MatchString(tc.fnClean) {
		return ""
	}
	return CleanManualName(NormalizeTitleTerms(tc.fnClean))
}

// titleBlockStop marks the fields that follow the title cell in a drawing
// frame; reaching one ends the block.
var titleBlockStop = []string{"PROJECT NO", "PLAN NO", "DWG NO", "DRAWING NO", "SHEET", "SCALE", "DEPT", "DSME"}

// titleChunkSignals say the accumulated block already names a full subject.
var titleChunkSignals = []string{"V/D", "E/R", "PLAN", "LIST", "ARRANGEMENT", "SYSTEM", "PLANT"}

// tryTitleBlock reads the TITLE cell of a drawing frame: from a line carrying
// the TITLE label it accumulates following lines until a stamp row or a
// neighbouring frame field shows up.
func tryTitleBlock(tc *titleContext) string {
	limit := min(len(tc.lines), 320)
	for i := 0; i < limit; i++ {
		loc := titleLabelRe.FindStringIndex(tc.lines[i])
		if loc == nil {
			continue
		}
		chunk := []string{tc.lines[i][loc[0]:]}
		for j := 1; j < 35 && i+j < len(tc.lines); j++ {
			nxt := tc.lines[i+j]
			if LooksLikeStamp(nxt) {
				break
			}
			if containsAnyOf(strings.ToUpper(nxt), titleBlockStop) {
				break
			}
			if alphaRatio(nxt) < 0.20 && !threeLettersRe.MatchString(nxt) {
				continue
			}
			chunk = append(chunk, nxt)
			joined := strings.Join(chunk, " ")
			if len([]rune(joined)) > 40 && containsAnyOf(strings.ToUpper(joined), titleChunkSignals) {
				break
			}
		}
		cleaned := CleanManualName(strings.Join(chunk, " "))
		if cleaned != "" && IsMeaningfulTitle(cleaned) {
			return cleaned
		}
	}
	return ""
}

// mergedTitleSignals gate the merged-line strategy to lines that carry both
// the TITLE label and a recognizable subject word.
var mergedTitleSignals = []string{"V-D", "V/D", "SPARE", "ARR", "NAME", "VALVE", "EQUIPMENT", "SYSTEM", "PLANT"}

// tryMergedTitleLine handles OCR output that ran the title cell and its
// content together on one long line.
func tryMergedTitleLine(tc *titleContext) string {
	limit := min(len(tc.lines), 420)
	for i := 0; i < limit; i++ {
		line := tc.lines[i]
		if !containsAnyOf(strings.ToUpper(line), mergedTitleSignals) {
			continue
		}
		loc := mergedTitleRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		cleaned := CleanManualName(line[loc[0]:])
		if cleaned != "" && IsMeaningfulTitle(cleaned) {
			return cleaned
		}
	}
	return ""
}

// tryKeywordScan hunts for machinery vocabulary anywhere in the body and
// grows the hit line with its neighbours into a candidate.
func tryKeywordScan(tc *titleContext) string {
	limit := min(len(tc.lines), 550)
	for i := 0; i < limit; i++ {
		line := tc.lines[i]
		if LooksLikeStamp(line) {
			continue
		}
		if alphaRatio(line) < 0.18 && !threeLettersRe.MatchString(line) {
			continue
		}
		if len([]rune(line)) >= 260 {
			continue
		}
		if !containsAnyOf(strings.ToUpper(line), scanKeywords) {
			continue
		}
		candidate := line
		for j := 1; j < 12 && i+j < len(tc.lines); j++ {
			nxt := tc.lines[i+j]
			if LooksLikeStamp(nxt) {
				break
			}
			if alphaRatio(nxt) < 0.18 && !threeLettersRe.MatchString(nxt) {
				continue
			}
			candidate += " " + nxt
			if len([]rune(candidate)) > 360 {
				break
			}
		}
		cleaned := CleanManualName(candidate)
		if cleaned != "" && IsMeaningfulTitle(cleaned) {
			return cleaned
		}
	}
	return ""
}

// tryLabelPatterns falls back to labelled header fields such as
// "Drawing Title: ..." anywhere in the raw text.
func tryLabelPatterns(tc *titleContext) string {
	for _, fp := range LabelPatterns {
		m := fp.Pattern.FindStringSubmatch(tc.text)
		if m == nil {
			continue
		}
		cleaned := CleanManualName(strings.TrimSpace(m[1]))
		if cleaned != "" && IsMeaningfulTitle(cleaned) {
			return cleaned
		}
	}
	return ""
}

// metaTitleJunk are placeholder titles PDF producers write by default.
var metaTitleJunk = map[string]bool{"untitled": true, "none": true, "1": true}

// tryMetadataTitle uses the document's own Title metadata when it is long
// enough to be deliberate.
func tryMetadataTitle(tc *titleContext) string {
	title := strings.TrimSpace(tc.metadata["Title"])
	if len([]rune(title)) <= 5 || metaTitleJunk[strings.ToLower(title)] {
		return ""
	}
	cleaned := CleanManualName(title)
	if cleaned != "" && IsMeaningfulTitle(cleaned) {
		return cleaned
	}
	return ""
}

// tryFolderFallback is the last resort: folder name plus cleaned filename,
// accepted without the meaningfulness gate.
func tryFolderFallback(tc *titleContext) string {
	return CleanManualName(strings.Trim(tc.folderName+" - "+tc.fnClean, " -"))
}
