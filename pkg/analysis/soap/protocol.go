package soap

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/me/soaplab/pkg/analysis"
)

func init() {
	analysis.RegisterProtocol("soap", New)
}

// protocol implements analysis.Protocol for one SOAP analysis endpoint.
type protocol struct {
	cfg analysis.Config
	tr  *transport
}

// New builds the soap protocol for cfg. It is registered as the "soap"
// access protocol; use analysis.NewClient rather than calling it directly.
func New(cfg analysis.Config, logger *slog.Logger) (analysis.Protocol, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tr, err := newTransport(Endpoint(cfg.Location, cfg.Name), cfg.HTTPProxy,
		logger.With("component", "soap-protocol"))
	if err != nil {
		return nil, err
	}
	return &protocol{cfg: cfg, tr: tr}, nil
}

// Endpoint returns the service URL for a named analysis under a base
// location: the hierarchical "::" separators become dots, so
// "edit::seqret" at "http://host/services" is served at
// "http://host/services/edit.seqret".
func Endpoint(location, name string) string {
	return strings.TrimSuffix(location, "/") + "/" + strings.ReplaceAll(name, "::", ".")
}

// jobToken extracts the server-side token from a composed job ID. IDs
// minted by Submit carry the analysis name as a prefix; a bare token is
// accepted as-is.
func (p *protocol) jobToken(jobID string) string {
	return strings.TrimPrefix(jobID, p.cfg.Name+"/")
}

func (p *protocol) Submit(ctx context.Context, inputs map[string]any) (string, error) {
	req := newRequest("createAndRun")
	for name, value := range inputs {
		req.Inputs = append(req.Inputs, encodeValue(name, value))
	}

	raw, err := p.tr.call(ctx, req)
	if err != nil {
		return "", err
	}
	var resp submitResponse
	if err := decode("createAndRun", raw, &resp); err != nil {
		return "", err
	}
	return p.cfg.Name + "/" + resp.JobID, nil
}

func (p *protocol) Status(ctx context.Context, jobID string) (analysis.JobState, error) {
	req := newRequest("getStatus")
	req.JobID = p.jobToken(jobID)

	raw, err := p.tr.call(ctx, req)
	if err != nil {
		return "", err
	}
	var resp statusResponse
	if err := decode("getStatus", raw, &resp); err != nil {
		return "", err
	}
	return mapStatus(resp.Status), nil
}

func (p *protocol) Times(ctx context.Context, jobID string) (analysis.JobTimes, error) {
	req := newRequest("getTimes")
	req.JobID = p.jobToken(jobID)

	raw, err := p.tr.call(ctx, req)
	if err != nil {
		return analysis.JobTimes{}, err
	}
	var resp timesResponse
	if err := decode("getTimes", raw, &resp); err != nil {
		return analysis.JobTimes{}, err
	}
	return analysis.JobTimes{
		Created: epochTime(resp.Created),
		Started: epochTime(resp.Started),
		Ended:   epochTime(resp.Ended),
	}, nil
}

func (p *protocol) Result(ctx context.Context, jobID, name string) ([]byte, error) {
	req := newRequest("getResult")
	req.JobID = p.jobToken(jobID)
	req.ResultName = name

	raw, err := p.tr.call(ctx, req)
	if err != nil {
		return nil, err
	}
	var resp resultsResponse
	if err := decode("getResult", raw, &resp); err != nil {
		return nil, err
	}
	for _, r := range resp.Results {
		if r.Name == name {
			value, err := r.decode()
			if err != nil {
				return nil, &analysis.TransportError{Op: "getResult", Err: err}
			}
			return value, nil
		}
	}
	return nil, &analysis.NoSuchResultError{JobID: jobID, Name: name}
}

func (p *protocol) Results(ctx context.Context, jobID string) (map[string][]byte, error) {
	req := newRequest("getResults")
	req.JobID = p.jobToken(jobID)

	raw, err := p.tr.call(ctx, req)
	if err != nil {
		return nil, err
	}
	var resp resultsResponse
	if err := decode("getResults", raw, &resp); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(resp.Results))
	for _, r := range resp.Results {
		value, err := r.decode()
		if err != nil {
			return nil, &analysis.TransportError{Op: "getResults", Err: err}
		}
		out[r.Name] = value
	}
	return out, nil
}

func (p *protocol) Release(ctx context.Context, jobID string) error {
	req := newRequest("destroy")
	req.JobID = p.jobToken(jobID)
	_, err := p.tr.call(ctx, req)
	return err
}

func (p *protocol) Describe(ctx context.Context) (*analysis.Metadata, error) {
	raw, err := p.tr.call(ctx, newRequest("describe"))
	if err != nil {
		return nil, err
	}
	var resp describeResponse
	if err := decode("describe", raw, &resp); err != nil {
		return nil, err
	}
	meta := &analysis.Metadata{
		Name:        resp.Name,
		Type:        resp.Type,
		Version:     resp.Version,
		Description: resp.Description,
		Supplier:    resp.Supplier,
	}
	if len(resp.Extras) > 0 {
		meta.Extras = make(map[string]string, len(resp.Extras))
		for _, e := range resp.Extras {
			meta.Extras[e.Key] = e.Value
		}
	}
	return meta, nil
}

func (p *protocol) InputSpec(ctx context.Context) ([]analysis.ParamSpec, error) {
	return p.spec(ctx, "getInputSpec")
}

func (p *protocol) ResultSpec(ctx context.Context) ([]analysis.ParamSpec, error) {
	return p.spec(ctx, "getResultSpec")
}

func (p *protocol) spec(ctx context.Context, method string) ([]analysis.ParamSpec, error) {
	raw, err := p.tr.call(ctx, newRequest(method))
	if err != nil {
		return nil, err
	}
	var resp specResponse
	if err := decode(method, raw, &resp); err != nil {
		return nil, err
	}
	specs := make([]analysis.ParamSpec, 0, len(resp.Params))
	for _, param := range resp.Params {
		specs = append(specs, param.spec())
	}
	return specs, nil
}
