package scan

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/anujgupta2in/Manualsscan/titlescan"
)

var exportHeaders = []string{
	"File Name",
	"Relative Path",
	"File Type",
	"Extracted Manual/Equipment/System Name",
	"Confidence",
	"Clues",
	"Notes",
}

// ExportXLSX renders scan results as a workbook: a "Results" sheet with one
// row per file and a "Summary" sheet with the counters and a per-type
// breakdown sorted by count.
func ExportXLSX(results []Result, counters Counters) ([]byte, error) {
	f := excelize.NewFile()

	const resSheet = "Results"
	f.SetSheetName("Sheet1", resSheet)

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(resSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, r := range results {
		values := []any{
			r.FileName,
			r.RelativePath,
			string(r.FileType),
			r.ManualName,
			string(r.Confidence),
			joinClues(r.Clues),
			r.Notes,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(resSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	f.SetColWidth(resSheet, "A", "A", 32)
	f.SetColWidth(resSheet, "B", "B", 48)
	f.SetColWidth(resSheet, "C", "C", 26)
	f.SetColWidth(resSheet, "D", "D", 48)
	f.SetColWidth(resSheet, "E", "E", 11)
	f.SetColWidth(resSheet, "F", "F", 34)
	f.SetColWidth(resSheet, "G", "G", 40)

	// Counters loaded from history carry no type breakdown; rebuild it.
	if len(counters.ByType) == 0 {
		counters.ByType = make(map[titlescan.DocType]int, 8)
		for _, r := range results {
			counters.ByType[r.FileType]++
		}
	}

	if err := writeSummarySheet(f, counters); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, counters Counters) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Total Files Found", counters.Processed},
		{"Successfully Scanned", counters.Success},
		{"Total Skipped", counters.Unsupported + counters.OCRMissing},
		{"Errors", counters.Errors},
	}

	type typeCount struct {
		docType titlescan.DocType
		count   int
	}
	byType := make([]typeCount, 0, len(counters.ByType))
	for dt, n := range counters.ByType {
		byType = append(byType, typeCount{dt, n})
	}
	sort.Slice(byType, func(i, j int) bool {
		if byType[i].count != byType[j].count {
			return byType[i].count > byType[j].count
		}
		return byType[i].docType < byType[j].docType
	})

	if len(byType) > 0 {
		rows = append(rows, []any{"", ""}, []any{"File Type", "Count"})
		for _, tc := range byType {
			rows = append(rows, []any{string(tc.docType), tc.count})
		}
	}

	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 12)
	return nil
}

func joinClues(clues []string) string {
	out := ""
	for i, c := range clues {
		if i > 0 {
			out += "; "
		}
		out += c
	}
	return out
}
