package docread

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// infoKeys are the Info dictionary entries worth surfacing, keyed by their
// canonical metadata name. PDF names happen to coincide.
var infoKeys = []string{"Title", "Author", "Subject", "Creator", "Producer"}

// readPDF extracts text from the first maxPages pages of a PDF along with the
// Info dictionary and extraction quality metrics. A PDF with no text layer is
// not an error: Text comes back empty and Quality explains why.
func readPDF(path string, maxPages int) (string, map[string]string, *Quality, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", nil, nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	pages := pctx.PageCount
	if pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	totalChars := 0
	for pageNr := 1; pageNr <= pages; pageNr++ {
		pageText := extractPageText(pctx, pageNr)
		if pageText == "" {
			continue
		}
		totalChars += len([]rune(pageText))
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(pageText)
	}
	text := sb.String()

	quality := &Quality{
		PageCount:       pctx.PageCount,
		PagesRead:       pages,
		PrintableRatio:  printableRatio(text),
		WordlikeRatio:   wordlikeRatio(text),
		HasImageStreams: detectImageStreams(pctx),
	}
	if pages > 0 {
		quality.CharsPerPage = float64(totalChars) / float64(pages)
	}

	return text, pdfInfoMetadata(pctx), quality, nil
}

// pdfInfoMetadata reads the Info dictionary. Both string literals and hex
// literals occur in the wild; anything else is skipped.
func pdfInfoMetadata(pctx *model.Context) map[string]string {
	if pctx.Info == nil {
		return nil
	}
	d, err := pctx.DereferenceDict(*pctx.Info)
	if err != nil || d == nil {
		return nil
	}

	meta := make(map[string]string, len(infoKeys))
	for _, key := range infoKeys {
		obj, found := d.Find(key)
		if !found {
			continue
		}
		obj, err := pctx.Dereference(obj)
		if err != nil {
			continue
		}
		var val string
		switch o := obj.(type) {
		case types.StringLiteral:
			val, _ = types.StringLiteralToString(o)
		case types.HexLiteral:
			val, _ = types.HexLiteralToString(o)
		}
		val = strings.TrimSpace(val)
		if val != "" {
			meta[key] = val
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

// extractPageText extracts text from a single page via its content stream.
func extractPageText(pctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return streamText(data)
}

// detectImageStreams checks whether the PDF carries image XObjects, the
// signature of a scanned document.
func detectImageStreams(pctx *model.Context) bool {
	if pctx.Optimize != nil {
		for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(pctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range pctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// streamText parses content-stream operators for text. Text-positioning
// operators (Td, TD, T*, ') become line breaks instead of spaces: on a
// drawing each title-block cell is its own positioning run, and the line
// heuristics downstream need that structure.
func streamText(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteString(text)
				}
			}

		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteByte('\n')
					sb.WriteString(text)
				}
			}

		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")), bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return tidyLines(sb.String())
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			// Octal escape, e.g. \040 for space.
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// tidyLines normalizes whitespace within each line while keeping the line
// breaks themselves.
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		var sb strings.Builder
		prevSpace := false
		for _, r := range ln {
			if unicode.IsSpace(r) {
				if !prevSpace && sb.Len() > 0 {
					sb.WriteByte(' ')
					prevSpace = true
				}
			} else if unicode.IsPrint(r) {
				sb.WriteRune(r)
				prevSpace = false
			}
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}
