// Package soap implements the "soap" access protocol: analysis services
// reachable as SOAP 1.1 endpoints under a common base location, one
// endpoint per analysis ("edit::seqret" is served at
// "<location>/edit.seqret"). Importing the package registers the protocol
// with the analysis package.
package soap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/me/soaplab/pkg/analysis"
)

// requestTimeout bounds each HTTP round trip. This is separate from the
// client config's Timeout, which bounds a whole WaitFor poll loop.
const requestTimeout = 30 * time.Second

// transport sends SOAP calls to one analysis endpoint.
type transport struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// newTransport builds the HTTP transport for the endpoint, routing through
// proxyURL when it is non-empty.
func newTransport(endpoint, proxyURL string, logger *slog.Logger) (*transport, error) {
	httpTransport := http.DefaultTransport
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL %q: %w", proxyURL, err)
		}
		httpTransport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}
	return &transport{
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: httpTransport,
		},
		endpoint: endpoint,
		logger:   logger,
	}, nil
}

// call performs one SOAP request/response exchange and returns the raw
// body contents for method-specific decoding. Any HTTP, envelope or fault
// failure comes back as an analysis.TransportError.
func (t *transport) call(ctx context.Context, req rpcRequest) ([]byte, error) {
	op := req.XMLName.Local

	envelope := requestEnvelope{Body: requestBody{Call: req}}
	body, err := xml.Marshal(envelope)
	if err != nil {
		return nil, &analysis.TransportError{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
	}
	payload := append([]byte(xml.Header), body...)

	t.logger.Debug("soap call", "method", op, "endpoint", t.endpoint)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &analysis.TransportError{Op: op, Err: err}
	}
	httpReq.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	httpReq.Header.Set("SOAPAction", fmt.Sprintf("%q", methodNS+"#"+op))

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, &analysis.TransportError{Op: op, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &analysis.TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	var respEnv responseEnvelope
	if unmarshalErr := xml.Unmarshal(respBody, &respEnv); unmarshalErr != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, &analysis.TransportError{Op: op, Err: fmt.Errorf("HTTP %d: %s", httpResp.StatusCode, respBody)}
		}
		return nil, &analysis.TransportError{Op: op, Err: fmt.Errorf("unmarshaling response: %w", unmarshalErr)}
	}

	// Faults may arrive with any HTTP status.
	if respEnv.Body.Fault != nil {
		t.logger.Debug("soap fault", "method", op, "code", respEnv.Body.Fault.Code, "reason", respEnv.Body.Fault.Reason)
		return nil, &analysis.TransportError{Op: op, Err: respEnv.Body.Fault}
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &analysis.TransportError{Op: op, Err: fmt.Errorf("HTTP %d", httpResp.StatusCode)}
	}

	return respEnv.Body.Raw, nil
}

// decode unmarshals a raw body payload into a method response struct.
func decode(op string, raw []byte, out any) error {
	if err := xml.Unmarshal(raw, out); err != nil {
		return &analysis.TransportError{Op: op, Err: fmt.Errorf("unmarshaling result: %w", err)}
	}
	return nil
}
