package titlescan

import "strings"

// Confidence grades how much supporting evidence backs an extracted name.
type Confidence string

const (
	ConfidenceLow  Confidence = "Low"
	ConfidenceMed  Confidence = "Med"
	ConfidenceHigh Confidence = "High"
)

// ScoreConfidence grades an extracted name against the evidence it came from.
// Extracted text lifts the score from Low to Med; a metadata title that
// survives as a substring of the name lifts it to High. The returned clues
// name the evidence: "Text content", "Metadata match", and "Keyword clue"
// when the filename or folder path mentions "manual".
func ScoreConfidence(text, name, filename, folderPath string, metadata map[string]string) (Confidence, []string) {
	conf := ConfidenceLow
	clues := make([]string, 0, 3)

	if strings.TrimSpace(text) != "" {
		conf = ConfidenceMed
		clues = append(clues, "Text content")
	}

	metaTitle := strings.ToUpper(strings.TrimSpace(metadata["Title"]))
	if metaTitle != "" && strings.Contains(strings.ToUpper(name), metaTitle) {
		conf = ConfidenceHigh
		clues = append(clues, "Metadata match")
	}

	if strings.Contains(strings.ToLower(filename), "manual") || strings.Contains(strings.ToLower(folderPath), "manual") {
		clues = append(clues, "Keyword clue")
	}

	return conf, clues
}
