package docread

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// maxXMLDepth bounds element nesting while walking OOXML. Real documents
// stay under a few dozen levels; a crafted file should not stack-starve us.
const maxXMLDepth = 128

// readDocx reads the first maxParagraphs non-empty paragraphs of
// word/document.xml plus the Dublin Core properties from docProps/core.xml.
func readDocx(path string, maxParagraphs int) (string, map[string]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile, coreFile *zip.File
	for _, f := range r.File {
		switch f.Name {
		case "word/document.xml":
			docFile = f
		case "docProps/core.xml":
			coreFile = f
		}
	}
	if docFile == nil {
		return "", nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open document.xml: %w", err)
	}
	text, err := docxParagraphs(rc, maxParagraphs)
	rc.Close()
	if err != nil {
		return "", nil, err
	}

	var meta map[string]string
	if coreFile != nil {
		if crc, err := coreFile.Open(); err == nil {
			meta = docxCoreProperties(crc)
			crc.Close()
		}
	}

	return text, meta, nil
}

// docxParagraphs walks the document XML token stream collecting paragraph
// text. Only <w:t> runs inside a paragraph contribute; the walk stops after
// maxParagraphs non-empty paragraphs.
func docxParagraphs(r io.Reader, maxParagraphs int) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs  []string
		currentText strings.Builder
		inParagraph bool
		depth       int
	)

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return "", fmt.Errorf("document.xml nesting exceeds %d levels", maxXMLDepth)
			}
			if t.Name.Local == "p" {
				inParagraph = true
				currentText.Reset()
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			depth--
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				if text := strings.TrimSpace(currentText.String()); text != "" {
					paragraphs = append(paragraphs, text)
					if len(paragraphs) == maxParagraphs {
						return strings.Join(paragraphs, "\n"), nil
					}
				}
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// coreProps maps docProps/core.xml element names to canonical metadata keys.
var coreProps = map[string]string{
	"title":   "Title",
	"creator": "Author",
	"subject": "Subject",
}

// docxCoreProperties extracts the Dublin Core document properties.
func docxCoreProperties(r io.Reader) map[string]string {
	decoder := xml.NewDecoder(r)
	meta := make(map[string]string, len(coreProps))

	var current string
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = coreProps[t.Name.Local]
		case xml.CharData:
			if current != "" {
				if val := strings.TrimSpace(string(t)); val != "" {
					meta[current] = val
				}
			}
		case xml.EndElement:
			current = ""
		}
	}

	if len(meta) == 0 {
		return nil
	}
	return meta
}
