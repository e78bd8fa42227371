package inspect

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domscope.yaml")
	data := "db_path: /tmp/x.db\nmax_documents: 5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.MaxDocuments != 5 {
		t.Errorf("got %+v", cfg)
	}

	// Unset fields pick up defaults.
	cfg.defaults()
	if cfg.SnippetMaxBytes != 512 {
		t.Errorf("snippet default: got %d", cfg.SnippetMaxBytes)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file must fail")
	}
}
