package analysis

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestRegisterProtocol(t *testing.T) {
	RegisterProtocol("test-proto", func(cfg Config, logger *slog.Logger) (Protocol, error) {
		return &fakeProtocol{states: []JobState{StateCompleted}}, nil
	})

	found := false
	for _, name := range Protocols() {
		if name == "test-proto" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Protocols() = %v, want to contain test-proto", Protocols())
	}

	c, err := NewClient(DefaultConfig("edit::seqret").WithAccess("test-proto"), nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.Name() != "edit::seqret" {
		t.Errorf("Name() = %s", c.Name())
	}
}

func TestNewClient_UnknownProtocol(t *testing.T) {
	_, err := NewClient(DefaultConfig("edit::seqret").WithAccess("carrier-pigeon"), nil)
	if err == nil {
		t.Fatal("expected error for unregistered protocol")
	}
	var ple *ProtocolLoadError
	if !errors.As(err, &ple) {
		t.Fatalf("error = %v, want ProtocolLoadError", err)
	}
	if ple.Access != "carrier-pigeon" {
		t.Errorf("ProtocolLoadError.Access = %q", ple.Access)
	}
}

func TestNewClient_RequiresName(t *testing.T) {
	if _, err := NewClient(Config{}, nil); err == nil {
		t.Fatal("expected error for missing analysis name")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("edit::seqret")

	if cfg.Access != DefaultAccess {
		t.Errorf("Access = %v, want %v", cfg.Access, DefaultAccess)
	}
	if cfg.Location != DefaultLocation {
		t.Errorf("Location = %v, want %v", cfg.Location, DefaultLocation)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if !cfg.DestroyOnExit {
		t.Error("DestroyOnExit should default to true")
	}
}

func TestConfig_With(t *testing.T) {
	cfg := DefaultConfig("edit::seqret")

	cfg2 := cfg.WithLocation("http://example.org/services")
	if cfg2.Location != "http://example.org/services" {
		t.Error("WithLocation did not set location")
	}
	if cfg.Location != DefaultLocation {
		t.Error("WithLocation modified original config")
	}

	cfg3 := cfg.WithTimeout(time.Minute).WithDestroyOnExit(false).WithProxy("http://proxy:3128")
	if cfg3.Timeout != time.Minute || cfg3.DestroyOnExit || cfg3.HTTPProxy == "" {
		t.Errorf("chained With* produced %+v", cfg3)
	}
}

func TestJobTimes_Elapsed(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		times  JobTimes
		want   time.Duration
		wantOK bool
	}{
		{"both known", JobTimes{Started: started, Ended: started.Add(90 * time.Second)}, 90 * time.Second, true},
		{"still running", JobTimes{Started: started}, 0, false},
		{"never started", JobTimes{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.times.Elapsed()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Elapsed() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
