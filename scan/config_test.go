package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 1 || cfg.DatabasePath != "db/scans.db" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	content := `
workers: 4
skip_hidden: true
database_path: /var/lib/manualscan/scans.db
read:
  max_pdf_pages: 3
  max_docx_paragraphs: 80
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 4 || !cfg.SkipHidden {
		t.Errorf("scan settings: %+v", cfg)
	}
	if cfg.DatabasePath != "/var/lib/manualscan/scans.db" {
		t.Errorf("database_path = %q", cfg.DatabasePath)
	}
	if cfg.Read.MaxPDFPages != 3 || cfg.Read.MaxDocxParagraphs != 80 {
		t.Errorf("read settings: %+v", cfg.Read)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("workers: [not a number"), 0o644)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	c.Workers = 100
	if err := c.Validate(); err == nil {
		t.Error("expected error for absurd worker count")
	}
}
