// Package config loads the toolkit's YAML configuration file. The file
// carries per-user defaults (service location, access protocol, polling)
// so the CLI does not need them repeated on every command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/me/soaplab/pkg/analysis"
)

// File is the on-disk configuration.
type File struct {
	// Access is the default access protocol name.
	Access string `yaml:"access"`

	// Location is the default base URL of the analysis services.
	Location string `yaml:"location"`

	// HTTPProxy routes service calls through a proxy when set.
	HTTPProxy string `yaml:"http_proxy"`

	// Timeout bounds a whole wait-for-completion loop, e.g. "120s".
	// Zero means wait forever.
	Timeout Duration `yaml:"timeout"`

	// PollInterval is the delay between status polls, e.g. "3s".
	PollInterval Duration `yaml:"poll_interval"`

	// KeepJobs disables destroying jobs on client shutdown.
	KeepJobs bool `yaml:"keep_jobs"`

	// ResultDir is where saved results land. Empty means the current
	// directory.
	ResultDir string `yaml:"result_dir"`

	// Ledger is the job ledger database path. Empty picks the default
	// under the user's home directory.
	Ledger string `yaml:"ledger"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format"`
}

// Duration decodes "30s"-style strings from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// DefaultPath returns the configuration file location under the user's
// home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".soaplab", "config.yaml"), nil
}

// Load reads the configuration at path. A missing file is not an error:
// it yields the zero File, so every setting falls back to its default.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &f, nil
}

// ClientConfig builds the client configuration for the named analysis,
// applying the file's settings over the built-in defaults.
func (f *File) ClientConfig(name string) analysis.Config {
	cfg := analysis.DefaultConfig(name)
	if f.Access != "" {
		cfg = cfg.WithAccess(f.Access)
	}
	if f.Location != "" {
		cfg = cfg.WithLocation(f.Location)
	}
	if f.HTTPProxy != "" {
		cfg = cfg.WithProxy(f.HTTPProxy)
	}
	if f.Timeout != 0 {
		cfg = cfg.WithTimeout(time.Duration(f.Timeout))
	}
	if f.PollInterval != 0 {
		cfg = cfg.WithPollInterval(time.Duration(f.PollInterval))
	}
	if f.KeepJobs {
		cfg = cfg.WithDestroyOnExit(false)
	}
	if f.ResultDir != "" {
		cfg = cfg.WithResultDir(f.ResultDir)
	}
	return cfg
}

// ServerConfig holds configuration for the mock analysis service.
type ServerConfig struct {
	Addr      string // listen address
	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json
	RunDelay  int    // status polls before a job completes
}

// DefaultServerConfig returns the mock service defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}
