package analysis

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Metadata describes a remote analysis, as reported by the service.
type Metadata struct {
	// Name is the analysis name, e.g. "edit::seqret".
	Name string

	// Type classifies the analysis (e.g. "sequence editing").
	Type string

	// Version is the version of the wrapped tool, if reported.
	Version string

	// Description is a human-readable summary.
	Description string

	// Supplier identifies who provides the wrapped tool.
	Supplier string

	// Extras holds any additional service-specific properties.
	Extras map[string]string
}

// ParamSpec describes one declared input or result of an analysis.
type ParamSpec struct {
	// Name is the parameter identifier.
	Name string

	// Type is the parameter data type (protocol vocabulary, e.g. "text",
	// "binary", "boolean").
	Type string

	// Mandatory indicates whether the input must be supplied. Always false
	// for results.
	Mandatory bool

	// Default is the default value, if declared.
	Default string

	// AllowedValues lists valid values for enumerated parameters.
	AllowedValues []string
}

// JobTimes holds the timestamps of one job. A zero time means
// "not available / not applicable".
type JobTimes struct {
	Created time.Time
	Started time.Time
	Ended   time.Time
}

// Elapsed returns the job's wall-clock duration. ok is false when either
// endpoint is unknown (display it as "n/a").
func (t JobTimes) Elapsed() (d time.Duration, ok bool) {
	if t.Started.IsZero() || t.Ended.IsZero() {
		return 0, false
	}
	return t.Ended.Sub(t.Started), true
}

// Protocol performs the remote operations for one analysis. Implementations
// are bound to a single analysis and location at construction time.
//
// Job IDs are opaque strings minted by Submit; every other method accepts
// the same ID back. An ID must keep addressing the same remote execution
// across Protocol instances built from the same Config.
type Protocol interface {
	// Submit creates a remote job from the canonical input mapping and
	// returns its ID. Values are string or []byte.
	Submit(ctx context.Context, inputs map[string]any) (string, error)

	// Status reports the job's current state.
	Status(ctx context.Context, jobID string) (JobState, error)

	// Times reports the job's timestamps.
	Times(ctx context.Context, jobID string) (JobTimes, error)

	// Result fetches one named result value.
	Result(ctx context.Context, jobID, name string) ([]byte, error)

	// Results fetches all results of the job.
	Results(ctx context.Context, jobID string) (map[string][]byte, error)

	// Release frees the remote resources held by the job.
	Release(ctx context.Context, jobID string) error

	// Describe returns the analysis metadata.
	Describe(ctx context.Context) (*Metadata, error)

	// InputSpec returns the declared inputs of the analysis.
	InputSpec(ctx context.Context) ([]ParamSpec, error)

	// ResultSpec returns the declared results of the analysis.
	ResultSpec(ctx context.Context) ([]ParamSpec, error)
}

// ProtocolFactory builds a Protocol for the given analysis configuration.
type ProtocolFactory func(cfg Config, logger *slog.Logger) (Protocol, error)

var (
	protocolsMu sync.RWMutex
	protocols   = map[string]ProtocolFactory{}
)

// RegisterProtocol makes an access protocol available under the given name.
// Protocol packages call it from init, in the manner of database/sql
// drivers. Registering twice under the same name panics.
func RegisterProtocol(name string, factory ProtocolFactory) {
	protocolsMu.Lock()
	defer protocolsMu.Unlock()
	if factory == nil {
		panic("analysis: RegisterProtocol with nil factory")
	}
	if _, dup := protocols[name]; dup {
		panic("analysis: RegisterProtocol called twice for protocol " + name)
	}
	protocols[name] = factory
}

// Protocols returns the names of the registered access protocols, sorted.
func Protocols() []string {
	protocolsMu.RLock()
	defer protocolsMu.RUnlock()
	names := make([]string, 0, len(protocols))
	for name := range protocols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newProtocol resolves and constructs the protocol named by cfg.Access.
func newProtocol(cfg Config, logger *slog.Logger) (Protocol, error) {
	protocolsMu.RLock()
	factory, ok := protocols[cfg.Access]
	protocolsMu.RUnlock()
	if !ok {
		return nil, &ProtocolLoadError{Access: cfg.Access}
	}
	proto, err := factory(cfg, logger)
	if err != nil {
		return nil, &ProtocolLoadError{Access: cfg.Access, Err: err}
	}
	return proto, nil
}
