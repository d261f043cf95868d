package docread

import "testing"

func TestPrintableRatio(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 1.0},
		{"clean ascii", "MAIN ENGINE", 1.0},
		{"all garbage", "�", 0.0},
	}
	for _, tt := range tests {
		if got := printableRatio(tt.text); got != tt.want {
			t.Errorf("%s: printableRatio = %v, want %v", tt.name, got, tt.want)
		}
	}

	if got := printableRatio("abcd����"); got != 0.5 {
		t.Errorf("half garbage: got %v, want 0.5", got)
	}
}

func TestWordlikeRatio(t *testing.T) {
	if got := wordlikeRatio(""); got != 0 {
		t.Errorf("empty: got %v", got)
	}
	if got := wordlikeRatio("SPARE PARTS LIST"); got != 1.0 {
		t.Errorf("clean words: got %v, want 1.0", got)
	}
	// Single letters and 16+ char runs are not word-like.
	if got := wordlikeRatio("a b engine xxxxxxxxxxxxxxxxxxxx"); got != 0.25 {
		t.Errorf("noisy tokens: got %v, want 0.25", got)
	}
}

func TestNeedsOCR(t *testing.T) {
	tests := []struct {
		name string
		q    Quality
		want bool
	}{
		{"text layer present", Quality{CharsPerPage: 800, PrintableRatio: 0.99}, false},
		{"image only", Quality{CharsPerPage: 3, PrintableRatio: 1.0, HasImageStreams: true}, true},
		{"broken text layer", Quality{CharsPerPage: 500, PrintableRatio: 0.4}, true},
		{"sparse but no images", Quality{CharsPerPage: 3, PrintableRatio: 1.0}, false},
	}
	for _, tt := range tests {
		if got := tt.q.NeedsOCR(); got != tt.want {
			t.Errorf("%s: NeedsOCR() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
