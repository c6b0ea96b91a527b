package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/me/soaplab/pkg/seq"
)

// Job is one remote execution of an analysis. A Job is created fresh by
// Client.Run/WaitFor, unsubmitted by Client.CreateJob(""), or re-attached
// to an existing remote job by Client.CreateJob(id).
//
// A Job handle is owned by the caller holding it and is not safe for
// concurrent use; the Client that created it does not retain it.
type Job struct {
	client *Client
	logger *slog.Logger

	id      string
	state   JobState
	times   JobTimes
	results map[string][]byte
	removed bool

	// destroyOnExit is fixed at creation from the client config.
	destroyOnExit bool
}

// ID returns the job identifier, or "" for an unsubmitted job. The value
// is an opaque token: compare it for equality, persist it, hand it back to
// Client.CreateJob, nothing more.
func (j *Job) ID() string {
	return j.id
}

// Submitted reports whether the job has a remote execution attached.
func (j *Job) Submitted() bool {
	return j.id != ""
}

// Analysis returns the name of the analysis this job runs.
func (j *Job) Analysis() string {
	return j.client.cfg.Name
}

// Run submits the job, building the canonical input mapping from the given
// descriptors. It returns immediately after submission with the job in a
// non-terminal state. Running an already submitted job returns
// ErrAlreadySubmitted.
func (j *Job) Run(ctx context.Context, descriptors ...InputDescriptor) error {
	if j.Submitted() {
		return ErrAlreadySubmitted
	}
	inputs, err := NormalizeInputs(j.logger, descriptors...)
	if err != nil {
		return err
	}
	id, err := j.client.proto.Submit(ctx, inputs)
	if err != nil {
		return err
	}
	j.id = id
	j.state = StateCreated
	j.logger.Debug("job submitted", "job", id, "inputs", len(inputs))
	return nil
}

// Status queries the remote state of the job and returns it. The locally
// cached state only ever advances; once a terminal state has been observed
// it is returned without another round trip. An unsubmitted job is
// StateCreated.
func (j *Job) Status(ctx context.Context) (JobState, error) {
	if !j.Submitted() {
		return StateCreated, nil
	}
	if j.state.IsTerminal() {
		return j.state, nil
	}
	state, err := j.client.proto.Status(ctx, j.id)
	if err != nil {
		return j.state, err
	}
	if j.state.CanTransitionTo(state) {
		j.state = state
	} else {
		j.logger.Warn("ignoring status regression", "job", j.id, "cached", j.state, "reported", state)
	}
	return j.state, nil
}

// LastStatus returns the locally cached state without a round trip.
func (j *Job) LastStatus() JobState {
	if !j.Submitted() {
		return StateCreated
	}
	return j.state
}

// Wait blocks, polling the job's status until it reaches a terminal state.
// The client's Timeout bounds the wait (zero means forever); the poll
// interval comes from the client config. The terminal state itself is
// reported by a following Status or LastStatus call.
func (j *Job) Wait(ctx context.Context) error {
	if !j.Submitted() {
		return fmt.Errorf("job is not submitted")
	}
	if t := j.client.cfg.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	interval := j.client.cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	// Check immediately first.
	state, err := j.Status(ctx)
	if err != nil {
		return err
	}
	if state.IsTerminal() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for job %s: %w", j.id, ctx.Err())
		case <-ticker.C:
			state, err := j.Status(ctx)
			if err != nil {
				return err
			}
			if state.IsTerminal() {
				return nil
			}
		}
	}
}

// Times returns the job's timestamps. Once the job is terminal and the end
// time is known the value is cached.
func (j *Job) Times(ctx context.Context) (JobTimes, error) {
	if !j.times.Ended.IsZero() {
		return j.times, nil
	}
	if !j.Submitted() {
		return JobTimes{}, nil
	}
	times, err := j.client.proto.Times(ctx, j.id)
	if err != nil {
		return JobTimes{}, err
	}
	if j.state.IsTerminal() {
		j.times = times
	}
	return times, nil
}

// Result returns the named result value. It fails with a NotReadyError
// while the job is non-terminal and with a NoSuchResultError when the name
// is not among the analysis's declared results. A value is fetched once and
// then served from the local cache.
func (j *Job) Result(ctx context.Context, name string) ([]byte, error) {
	if value, ok := j.results[name]; ok {
		return value, nil
	}

	state, err := j.Status(ctx)
	if err != nil {
		return nil, err
	}
	if !state.IsTerminal() {
		return nil, &NotReadyError{JobID: j.id, State: state}
	}

	known, err := j.client.resultNames(ctx)
	if err != nil {
		return nil, err
	}
	if !known[name] {
		return nil, &NoSuchResultError{JobID: j.id, Name: name}
	}

	value, err := j.client.proto.Result(ctx, j.id, name)
	if err != nil {
		return nil, err
	}
	if j.results == nil {
		j.results = map[string][]byte{}
	}
	j.results[name] = value
	return value, nil
}

// Results retrieves result values according to selector and returns a
// mapping from result name to either the inline value ([]byte) or the name
// of the file it was saved to (string).
//
// A nil or empty selector returns every result inline. Otherwise each
// selector entry maps a result name to a destination:
//
//   - "": return the value inline
//   - a filename or template (placeholders $ANALYSIS and $RESULT, "*" for
//     a free number): save the value there
//   - "@tmpl": save every result of the job using the template (empty tmpl
//     means the default template); other selector entries are ignored
//   - "?tmpl": fetch every result; save the binary ones using the
//     template, return the textual ones inline
//
// The selector key for the "@" and "?" forms is conventionally "?" but any
// key works; the destination marker alone decides.
func (j *Job) Results(ctx context.Context, selector map[string]string) (map[string]any, error) {
	state, err := j.Status(ctx)
	if err != nil {
		return nil, err
	}
	if !state.IsTerminal() {
		return nil, &NotReadyError{JobID: j.id, State: state}
	}

	// A destination marker switches to whole-job mode.
	for _, dest := range selector {
		if strings.HasPrefix(dest, "@") {
			return j.saveAll(ctx, strings.TrimPrefix(dest, "@"), false)
		}
		if strings.HasPrefix(dest, "?") {
			return j.saveAll(ctx, strings.TrimPrefix(dest, "?"), true)
		}
	}

	if len(selector) == 0 {
		all, err := j.fetchAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(all))
		for name, value := range all {
			out[name] = value
		}
		return out, nil
	}

	out := make(map[string]any, len(selector))
	store := j.store()
	for name, dest := range selector {
		value, err := j.Result(ctx, name)
		if err != nil {
			return nil, err
		}
		if dest == "" {
			out[name] = value
			continue
		}
		saved, err := store.Save(name, value, SaveOptions{Template: dest})
		if err != nil {
			return nil, err
		}
		out[name] = saved
	}
	return out, nil
}

// saveAll fetches every result; binaryOnly keeps textual values inline.
func (j *Job) saveAll(ctx context.Context, template string, binaryOnly bool) (map[string]any, error) {
	all, err := j.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	store := j.store()
	out := make(map[string]any, len(all))
	for name, value := range all {
		if binaryOnly && !seq.IsBinary(value) {
			out[name] = value
			continue
		}
		saved, err := store.Save(name, value, SaveOptions{Template: template})
		if err != nil {
			return nil, err
		}
		out[name] = saved
	}
	return out, nil
}

// fetchAll retrieves every result of the job, filling the local cache.
func (j *Job) fetchAll(ctx context.Context) (map[string][]byte, error) {
	all, err := j.client.proto.Results(ctx, j.id)
	if err != nil {
		return nil, err
	}
	if j.results == nil {
		j.results = make(map[string][]byte, len(all))
	}
	for name, value := range all {
		if cached, ok := j.results[name]; ok {
			all[name] = cached
			continue
		}
		j.results[name] = value
	}
	return all, nil
}

// store builds the ResultStore used for saving this job's results.
func (j *Job) store() *ResultStore {
	return &ResultStore{Dir: j.client.cfg.ResultDir, Analysis: j.client.cfg.Name}
}

// Remove releases the remote resources held by the job. It is idempotent:
// removing an already removed (or never submitted) job is a no-op.
func (j *Job) Remove(ctx context.Context) error {
	if j.removed || !j.Submitted() {
		return nil
	}
	if err := j.client.proto.Release(ctx, j.id); err != nil {
		return err
	}
	j.removed = true
	j.logger.Debug("job removed", "job", j.id)
	return nil
}

// Close disposes of the local handle. When the client was configured with
// DestroyOnExit (the default) it behaves as Remove; otherwise the remote
// job is left intact and only local state is dropped.
func (j *Job) Close() error {
	if j.destroyOnExit {
		return j.Remove(context.Background())
	}
	return nil
}
