package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/me/soaplab/pkg/analysis"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := f.ClientConfig("edit::seqret")
	def := analysis.DefaultConfig("edit::seqret")
	if cfg.Location != def.Location {
		t.Errorf("location = %q, want default %q", cfg.Location, def.Location)
	}
	if !cfg.DestroyOnExit {
		t.Error("DestroyOnExit should default to true")
	}
}

func TestLoadAppliesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
location: http://localhost:8080
timeout: 30s
poll_interval: 500ms
keep_jobs: true
result_dir: /tmp/results
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.LogLevel != "debug" {
		t.Errorf("log level = %q", f.LogLevel)
	}

	cfg := f.ClientConfig("edit::seqret")
	if cfg.Location != "http://localhost:8080" {
		t.Errorf("location = %q", cfg.Location)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.DestroyOnExit {
		t.Error("keep_jobs should disable DestroyOnExit")
	}
	if cfg.ResultDir != "/tmp/results" {
		t.Errorf("result dir = %q", cfg.ResultDir)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("location: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
