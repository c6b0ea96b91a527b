// Package analysis provides a client toolkit for remote bioinformatics
// analysis services: it submits named analyses (for example "edit::seqret")
// to a service endpoint through a pluggable access protocol, tracks the
// resulting jobs, and retrieves their named results.
package analysis

import "time"

// Default endpoint and access protocol.
const (
	DefaultAccess   = "soap"
	DefaultLocation = "http://www.ebi.ac.uk/soaplab/services"
)

// Default client settings.
const (
	// DefaultTimeout bounds WaitFor. A zero Timeout in Config means
	// "wait forever"; DefaultConfig sets this value instead.
	DefaultTimeout = 120 * time.Second

	// DefaultPollInterval is the delay between status polls in WaitFor.
	DefaultPollInterval = 3 * time.Second
)

// Config identifies one remote analysis and how to reach it. It is fixed
// once a Client is constructed and shared by all jobs created from that
// Client.
type Config struct {
	// Name is the hierarchical analysis name, e.g. "edit::seqret".
	Name string

	// Access selects the access protocol implementation. Empty means
	// DefaultAccess.
	Access string

	// Location is the base URL of the analysis service.
	Location string

	// HTTPProxy is an optional proxy URL for HTTP-based protocols.
	HTTPProxy string

	// Timeout bounds a single WaitFor call. Zero means wait forever.
	Timeout time.Duration

	// PollInterval is the delay between status polls while waiting.
	PollInterval time.Duration

	// DestroyOnExit releases remote job resources when a Job handle is
	// closed. When false, jobs persist remotely and can be re-attached
	// later by ID.
	DestroyOnExit bool

	// ResultDir is the directory result files are written to. Empty means
	// the process working directory.
	ResultDir string
}

// DefaultConfig returns a Config for the named analysis with default
// endpoint and settings.
func DefaultConfig(name string) Config {
	return Config{
		Name:          name,
		Access:        DefaultAccess,
		Location:      DefaultLocation,
		Timeout:       DefaultTimeout,
		PollInterval:  DefaultPollInterval,
		DestroyOnExit: true,
	}
}

// WithAccess returns a copy of the config with the given access protocol.
func (c Config) WithAccess(access string) Config {
	c.Access = access
	return c
}

// WithLocation returns a copy of the config with the given service URL.
func (c Config) WithLocation(location string) Config {
	c.Location = location
	return c
}

// WithProxy returns a copy of the config with the given HTTP proxy URL.
func (c Config) WithProxy(proxy string) Config {
	c.HTTPProxy = proxy
	return c
}

// WithTimeout returns a copy of the config with the given WaitFor limit.
// Zero means wait forever.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}

// WithPollInterval returns a copy of the config with the given poll delay.
func (c Config) WithPollInterval(d time.Duration) Config {
	c.PollInterval = d
	return c
}

// WithDestroyOnExit returns a copy of the config with the disposal policy.
func (c Config) WithDestroyOnExit(destroy bool) Config {
	c.DestroyOnExit = destroy
	return c
}

// WithResultDir returns a copy of the config with the result directory.
func (c Config) WithResultDir(dir string) Config {
	c.ResultDir = dir
	return c
}
