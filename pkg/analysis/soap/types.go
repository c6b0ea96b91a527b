package soap

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/me/soaplab/pkg/analysis"
)

// XML namespaces of the service protocol.
const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	methodNS   = "urn:soaplab"
)

// Wire value types.
const (
	typeText   = "text"
	typeBinary = "binary"
)

// requestEnvelope is the outgoing SOAP 1.1 envelope.
type requestEnvelope struct {
	XMLName xml.Name    `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    requestBody `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

type requestBody struct {
	Call rpcRequest
}

// rpcRequest is the method element inside the request body. XMLName.Local
// carries the method name; unused fields stay empty and are omitted.
type rpcRequest struct {
	XMLName    xml.Name
	NS         string      `xml:"xmlns,attr"`
	JobID      string      `xml:"jobId,omitempty"`
	ResultName string      `xml:"resultName,omitempty"`
	Inputs     []wireValue `xml:"input,omitempty"`
}

// newRequest builds an rpcRequest for the named method.
func newRequest(method string) rpcRequest {
	return rpcRequest{
		XMLName: xml.Name{Local: method},
		NS:      methodNS,
	}
}

// responseEnvelope is the incoming SOAP envelope. Raw keeps the body
// contents for method-specific decoding.
type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	Fault *Fault `xml:"Fault"`
	Raw   []byte `xml:",innerxml"`
}

// Fault is a SOAP fault reported by the service.
type Fault struct {
	Code   string `xml:"faultcode"`
	Reason string `xml:"faultstring"`
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Code != "" {
		return fmt.Sprintf("%s: %s", f.Code, f.Reason)
	}
	return f.Reason
}

// wireValue is one named value on the wire: an input on submission or a
// result on retrieval. Binary payloads travel base64-encoded with
// Type "binary".
type wireValue struct {
	Name  string `xml:"name"`
	Type  string `xml:"type"`
	Value string `xml:"value"`
}

// encodeValue converts an input value into its wire form.
func encodeValue(name string, value any) wireValue {
	switch v := value.(type) {
	case []byte:
		return wireValue{Name: name, Type: typeBinary, Value: base64.StdEncoding.EncodeToString(v)}
	case string:
		return wireValue{Name: name, Type: typeText, Value: v}
	default:
		return wireValue{Name: name, Type: typeText, Value: fmt.Sprintf("%v", v)}
	}
}

// decodeValue converts a wire value back into bytes.
func (v wireValue) decode() ([]byte, error) {
	if v.Type == typeBinary {
		data, err := base64.StdEncoding.DecodeString(v.Value)
		if err != nil {
			return nil, fmt.Errorf("result %q: decoding base64: %w", v.Name, err)
		}
		return data, nil
	}
	return []byte(v.Value), nil
}

// wireParam is one declared input or result parameter.
type wireParam struct {
	Name      string   `xml:"name"`
	Type      string   `xml:"type"`
	Mandatory bool     `xml:"mandatory"`
	Default   string   `xml:"default"`
	Allowed   []string `xml:"allowed"`
}

func (p wireParam) spec() analysis.ParamSpec {
	return analysis.ParamSpec{
		Name:          p.Name,
		Type:          p.Type,
		Mandatory:     p.Mandatory,
		Default:       p.Default,
		AllowedValues: p.Allowed,
	}
}

// Method-specific response payloads. XMLName is left unconstrained so the
// structs match whatever response element the service wraps them in.

type submitResponse struct {
	XMLName xml.Name
	JobID   string `xml:"jobId"`
}

type statusResponse struct {
	XMLName xml.Name
	Status  string `xml:"status"`
}

type timesResponse struct {
	XMLName xml.Name
	// Epoch milliseconds; zero means not available.
	Created int64 `xml:"created"`
	Started int64 `xml:"started"`
	Ended   int64 `xml:"ended"`
}

type describeResponse struct {
	XMLName     xml.Name
	Name        string      `xml:"name"`
	Type        string      `xml:"type"`
	Version     string      `xml:"version"`
	Description string      `xml:"description"`
	Supplier    string      `xml:"supplier"`
	Extras      []wireExtra `xml:"extra"`
}

type wireExtra struct {
	Key   string `xml:"key"`
	Value string `xml:"value"`
}

type specResponse struct {
	XMLName xml.Name
	Params  []wireParam `xml:"param"`
}

type resultsResponse struct {
	XMLName xml.Name
	Results []wireValue `xml:"result"`
}

// mapStatus converts the service's status vocabulary to job states. The
// service reports terminations split by cause; unknown strings pass
// through uppercased so new vocabulary is at least visible to callers.
func mapStatus(s string) analysis.JobState {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREATED":
		return analysis.StateCreated
	case "RUNNING":
		return analysis.StateRunning
	case "COMPLETED":
		return analysis.StateCompleted
	case "FAILED", "TERMINATED_BY_ERROR":
		return analysis.StateFailed
	case "TERMINATED", "TERMINATED_BY_REQUEST":
		return analysis.StateTerminated
	}
	return analysis.JobState(strings.ToUpper(strings.TrimSpace(s)))
}

// epochTime converts epoch milliseconds to a time, zero meaning n/a.
func epochTime(millis int64) time.Time {
	if millis == 0 {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}
