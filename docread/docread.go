// Package docread extracts text and embedded metadata from scanned ship
// document files so the title engine has something to work with.
//
// Supported formats:
//   - .pdf        — text of the first pages (content-stream operators) plus
//     the Info dictionary mapped to canonical metadata keys
//   - .docx       — first paragraphs of word/document.xml plus core properties
//   - .txt        — raw file contents
//   - .htm/.html  — visible text plus the page title
//
// Scanned-image PDFs legitimately yield an empty Text with quality metrics
// explaining why; that is a result, not an error. Line structure is
// preserved because the downstream heuristics scan line by line.
//
// Usage:
//
//	reader := docread.New(docread.Config{})
//	doc, err := reader.Read(ctx, "/ships/hull1/M(A)-12 COOLER.pdf")
//	fmt.Println(doc.Metadata["Title"], len(doc.Text))
package docread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors callers branch on to decide a skip status.
var (
	// ErrUnsupportedFormat means the file extension is not one docread
	// can decode.
	ErrUnsupportedFormat = errors.New("docread: unsupported format")

	// ErrLegacyDoc marks binary .doc files, which need an external
	// converter before they can be read.
	ErrLegacyDoc = errors.New("docread: legacy .doc requires conversion")
)

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

// Document is the result of reading one file.
type Document struct {
	Path   string `json:"path"`
	Format Format `json:"format"`

	// Text is the extracted content with line breaks preserved. Empty for
	// scanned-image documents.
	Text string `json:"text"`

	// Metadata holds embedded document properties under canonical keys
	// ("Title", "Author", "Subject", "Creator", "Producer"), whatever the
	// format's native names are. Nil when the document carries none.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Quality holds PDF extraction quality metrics, nil for other formats.
	Quality *Quality `json:"quality,omitempty"`
}

// Config configures a Reader.
type Config struct {
	// MaxPDFPages is how many pages of a PDF to read (default: 2). Titles
	// live on the cover and the first sheet; reading further only adds
	// noise and latency.
	MaxPDFPages int `json:"max_pdf_pages" yaml:"max_pdf_pages"`

	// MaxDocxParagraphs is how many non-empty paragraphs of a .docx to
	// keep (default: 50).
	MaxDocxParagraphs int `json:"max_docx_paragraphs" yaml:"max_docx_paragraphs"`

	// MaxFileSize is the maximum file size to process (default: 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Logger for debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxPDFPages <= 0 {
		c.MaxPDFPages = 2
	}
	if c.MaxDocxParagraphs <= 0 {
		c.MaxDocxParagraphs = 50
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Reader extracts text and metadata from document files.
type Reader struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Reader with the given configuration.
func New(cfg Config) *Reader {
	cfg.defaults()
	return &Reader{cfg: cfg, logger: cfg.Logger}
}

// Detect returns the document format based on the file extension.
func (r *Reader) Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".txt", ".text":
		return FormatTXT, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".doc":
		return "", ErrLegacyDoc
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Read extracts a document's text and metadata. A readable document with no
// text layer (a scanned drawing) returns an empty Text and a nil error; the
// caller decides what that means.
func (r *Reader) Read(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > r.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), r.cfg.MaxFileSize)
	}

	format, err := r.Detect(path)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("reading document", "path", path, "format", format)

	var (
		text    string
		meta    map[string]string
		quality *Quality
	)
	switch format {
	case FormatPDF:
		text, meta, quality, err = readPDF(path, r.cfg.MaxPDFPages)
	case FormatDocx:
		text, meta, err = readDocx(path, r.cfg.MaxDocxParagraphs)
	case FormatTXT:
		text, err = readText(path)
	case FormatHTML:
		text, meta, err = readHTML(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s (%s): %w", path, format, err)
	}

	return &Document{
		Path:     path,
		Format:   format,
		Text:     text,
		Metadata: meta,
		Quality:  quality,
	}, nil
}

// SupportedFormats returns the readable file extensions.
func SupportedFormats() []string {
	return []string{"pdf", "docx", "txt", "html"}
}
