// CLAUDE:SUMMARY Inspect service configuration with defaults and YAML file loading.
package inspect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config configures the inspect service.
type Config struct {
	// DBPath is the SQLite database holding snapshots and the query log.
	// ":memory:" is valid.
	DBPath string `yaml:"db_path" json:"db_path"`

	// MaxDocuments caps the in-memory document registry. Loading beyond
	// the cap evicts the oldest document.
	MaxDocuments int `yaml:"max_documents" json:"max_documents"`

	// SnippetMaxBytes truncates sanitized element snippets.
	SnippetMaxBytes int `yaml:"snippet_max_bytes" json:"snippet_max_bytes"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "data/domscope.db"
	}
	if c.MaxDocuments <= 0 {
		c.MaxDocuments = 32
	}
	if c.SnippetMaxBytes <= 0 {
		c.SnippetMaxBytes = 512
	}
}

// LoadConfigFile reads a YAML config file. Missing fields fall back to
// defaults at New time.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inspect: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("inspect: parse config %s: %w", path, err)
	}
	return &cfg, nil
}
