package scan

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anujgupta2in/Manualsscan/docread"
)

// Config configures the scan service.
type Config struct {
	// Read configures the document extraction layer.
	Read docread.Config `yaml:"read"`

	// Workers is the number of files processed concurrently (default: 1,
	// sequential). The engine is pure, so any degree works.
	Workers int `yaml:"workers"`

	// SkipHidden skips dot-files and dot-directories during the walk.
	SkipHidden bool `yaml:"skip_hidden"`

	// DatabasePath is where scan history lives (default: db/scans.db).
	DatabasePath string `yaml:"database_path"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "db/scans.db"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	var c Config
	c.defaults()
	return c
}

// LoadConfig reads a YAML config file and fills in defaults. A missing file
// is not an error: it yields the defaults, so a bare deployment needs no
// config at all.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.defaults()
	return c, c.Validate()
}

// maxWorkers caps the pool size, configured or per scan.
const maxWorkers = 64

// Validate rejects configurations the scanner cannot run with.
func (c *Config) Validate() error {
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers = %d exceeds the sane maximum of %d", c.Workers, maxWorkers)
	}
	if c.Read.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative")
	}
	return nil
}
