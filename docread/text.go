package docread

import (
	"os"
	"strings"
)

// readText returns a plain text file's contents with line endings normalized
// to \n. Content is otherwise untouched; the engine does its own cleaning.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
