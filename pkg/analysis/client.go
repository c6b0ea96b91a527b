package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Client is the façade applications use to talk to one named remote
// analysis. It resolves the access protocol at construction and acts as a
// factory for jobs; it does not retain the jobs it creates.
type Client struct {
	cfg    Config
	proto  Protocol
	logger *slog.Logger

	specMu  sync.Mutex
	results map[string]bool // declared result names, fetched lazily
}

// NewClient builds a client for the analysis named in cfg. An empty Access
// falls back to DefaultAccess and an empty Location to DefaultLocation; a
// protocol that is not registered or fails to construct yields a
// ProtocolLoadError. logger may be nil.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("analysis name is required")
	}
	if cfg.Access == "" {
		cfg.Access = DefaultAccess
	}
	if cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "analysis-client", "analysis", cfg.Name)

	proto, err := newProtocol(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, proto: proto, logger: logger}, nil
}

// Name returns the analysis name the client is bound to.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// CreateJob returns a job handle. With an ID previously obtained from a
// job of the same analysis it re-attaches to that remote execution without
// submitting anything; with an empty ID it returns a fresh unsubmitted job
// whose Run method performs the submission.
func (c *Client) CreateJob(id string) *Job {
	j := &Job{
		client:        c,
		logger:        c.logger,
		id:            id,
		destroyOnExit: c.cfg.DestroyOnExit,
	}
	if id != "" {
		j.state = StateCreated
	}
	return j
}

// Run submits the inputs and returns immediately with the job in a
// non-terminal state.
func (c *Client) Run(ctx context.Context, descriptors ...InputDescriptor) (*Job, error) {
	j := c.CreateJob("")
	if err := j.Run(ctx, descriptors...); err != nil {
		return nil, err
	}
	return j, nil
}

// WaitFor submits the inputs and blocks polling status until the job
// reaches a terminal state, honoring the configured Timeout. The returned
// job is terminal; inspect LastStatus to distinguish success from failure.
func (c *Client) WaitFor(ctx context.Context, descriptors ...InputDescriptor) (*Job, error) {
	j, err := c.Run(ctx, descriptors...)
	if err != nil {
		return nil, err
	}
	if err := j.Wait(ctx); err != nil {
		return j, err
	}
	return j, nil
}

// Describe returns the analysis metadata. Side-effect-free.
func (c *Client) Describe(ctx context.Context) (*Metadata, error) {
	return c.proto.Describe(ctx)
}

// InputSpec returns the declared inputs of the analysis.
func (c *Client) InputSpec(ctx context.Context) ([]ParamSpec, error) {
	return c.proto.InputSpec(ctx)
}

// ResultSpec returns the declared results of the analysis.
func (c *Client) ResultSpec(ctx context.Context) ([]ParamSpec, error) {
	return c.proto.ResultSpec(ctx)
}

// resultNames returns the set of declared result names, fetched once.
func (c *Client) resultNames(ctx context.Context) (map[string]bool, error) {
	c.specMu.Lock()
	defer c.specMu.Unlock()
	if c.results != nil {
		return c.results, nil
	}
	spec, err := c.proto.ResultSpec(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(spec))
	for _, p := range spec {
		names[p.Name] = true
	}
	c.results = names
	return names, nil
}
