package scan

import "github.com/anujgupta2in/Manualsscan/titlescan"

// Statuses recorded in a Result's Notes column. Extraction failures carry
// the error text after the "Error: " prefix.
const (
	StatusSuccess     = "Success"
	StatusUnsupported = "Skipped: Unsupported format"
	StatusLegacyDoc   = "Skipped: .doc requires LibreOffice"
	StatusNoText      = "Skipped: Scanned/No Text (OCR missing)"
)

// Result is the record produced for every file a scan visits, whatever its
// status. Identification still runs on whatever text was obtained, so even a
// skipped file gets a best-effort name from its filename and folder.
type Result struct {
	FileName     string               `json:"file_name"`
	RelativePath string               `json:"relative_path"`
	FileType     titlescan.DocType    `json:"file_type"`
	ManualName   string               `json:"manual_name"`
	Confidence   titlescan.Confidence `json:"confidence"`
	Clues        []string             `json:"clues"`
	Notes        string               `json:"notes"`
}

// Counters aggregate one scan run.
type Counters struct {
	Processed   int                       `json:"processed"`
	Success     int                       `json:"success"`
	Unsupported int                       `json:"unsupported"`
	OCRMissing  int                       `json:"ocr_missing"`
	Errors      int                       `json:"errors"`
	ByType      map[titlescan.DocType]int `json:"by_type"`
}

func (c *Counters) record(r Result) {
	c.Processed++
	switch {
	case r.Notes == StatusSuccess:
		c.Success++
	case r.Notes == StatusNoText:
		c.OCRMissing++
	case r.Notes == StatusUnsupported || r.Notes == StatusLegacyDoc:
		c.Unsupported++
	default:
		c.Errors++
	}
	if c.ByType == nil {
		c.ByType = make(map[titlescan.DocType]int)
	}
	c.ByType[r.FileType]++
}

// Progress is a point-in-time view of a running scan.
type Progress struct {
	CurrentFile string `json:"current_file"`
	Processed   int    `json:"processed"`
	Total       int    `json:"total"`
}

// Report is the outcome of one synchronous scan run.
type Report struct {
	Root     string   `json:"root"`
	Results  []Result `json:"results"`
	Counters Counters `json:"counters"`
}
