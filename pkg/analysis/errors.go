package analysis

import (
	"errors"
	"fmt"
)

// ErrAlreadySubmitted is returned by Job.Run on a job that already has a
// remote execution attached to it.
var ErrAlreadySubmitted = errors.New("job already submitted")

// ProtocolLoadError indicates the requested access protocol implementation
// is not registered or failed to construct. Fatal; never retried.
type ProtocolLoadError struct {
	Access string
	Err    error
}

func (e *ProtocolLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("access protocol %q: %v", e.Access, e.Err)
	}
	return fmt.Sprintf("access protocol %q is not registered", e.Access)
}

func (e *ProtocolLoadError) Unwrap() error { return e.Err }

// TransportError indicates a protocol-level communication failure with the
// remote service. It is surfaced to the caller unchanged; whether to retry
// is the caller's choice.
type TransportError struct {
	// Op is the operation that failed, e.g. "getStatus".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// InputError indicates a malformed input descriptor or an unreadable @file
// reference. Fatal for the Run/WaitFor call that built the inputs.
type InputError struct {
	// Input is the input name, when known.
	Input string
	Err   error
}

func (e *InputError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("input %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("input: %v", e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// NotReadyError is returned when a result is requested before the job
// reached a terminal state. Callers should poll or wait first.
type NotReadyError struct {
	JobID string
	State JobState
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("job %s is not finished (state %s)", e.JobID, e.State)
}

// NoSuchResultError indicates a result name that is not among the
// analysis's declared results.
type NoSuchResultError struct {
	JobID string
	Name  string
}

func (e *NoSuchResultError) Error() string {
	return fmt.Sprintf("job %s has no result named %q", e.JobID, e.Name)
}

// ResultWriteError indicates a local filesystem failure while saving a
// result. The already-fetched result value stays valid.
type ResultWriteError struct {
	Result string
	Path   string
	Err    error
}

func (e *ResultWriteError) Error() string {
	return fmt.Sprintf("saving result %q to %s: %v", e.Result, e.Path, e.Err)
}

func (e *ResultWriteError) Unwrap() error { return e.Err }

// IsNotReady returns true if the error means the job has not finished yet.
func IsNotReady(err error) bool {
	var e *NotReadyError
	return errors.As(err, &e)
}

// IsNoSuchResult returns true if the error names an unknown result.
func IsNoSuchResult(err error) bool {
	var e *NoSuchResultError
	return errors.As(err, &e)
}

// IsTransport returns true if the error is a communication failure that the
// caller may choose to retry.
func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}
