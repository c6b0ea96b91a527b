package mocklab

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/me/soaplab/pkg/seq"
)

const envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// Wire value types, mirroring the client protocol.
const (
	typeText   = "text"
	typeBinary = "binary"
)

// wireValue is one named value on the wire.
type wireValue struct {
	Name  string `xml:"name"`
	Type  string `xml:"type"`
	Value string `xml:"value"`
}

func encodeValue(name string, value []byte) wireValue {
	if seq.IsBinary(value) {
		return wireValue{Name: name, Type: typeBinary, Value: base64.StdEncoding.EncodeToString(value)}
	}
	return wireValue{Name: name, Type: typeText, Value: string(value)}
}

func (v wireValue) decode() ([]byte, error) {
	if v.Type == typeBinary {
		data, err := base64.StdEncoding.DecodeString(v.Value)
		if err != nil {
			return nil, fmt.Errorf("input %q: decoding base64: %w", v.Name, err)
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

func wireParams(params []Param) []wireParam {
	out := make([]wireParam, 0, len(params))
	for _, p := range params {
		out = append(out, wireParam{
			Name:      p.Name,
			Type:      p.Type,
			Mandatory: p.Mandatory,
			Default:   p.Default,
			Allowed:   p.Allowed,
		})
	}
	return out
}

// Method-specific response payloads. The element name comes from the
// respond call, not the struct.

type submitPayload struct {
	JobID string `xml:"jobId"`
}

type statusPayload struct {
	Status string `xml:"status"`
}

type timesPayload struct {
	Created int64 `xml:"created"`
	Started int64 `xml:"started"`
	Ended   int64 `xml:"ended"`
}

type describePayload struct {
	Name        string `xml:"name"`
	Type        string `xml:"type"`
	Version     string `xml:"version"`
	Description string `xml:"description"`
	Supplier    string `xml:"supplier"`
}

type specPayload struct {
	Params []wireParam `xml:"param"`
}

type resultsPayload struct {
	Results []wireValue `xml:"result"`
}

type faultPayload struct {
	Code   string `xml:"faultcode"`
	Reason string `xml:"faultstring"`
}

// respEnvelope wraps an already-marshalled body element in a SOAP 1.1
// envelope.
type respEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	NS      string   `xml:"xmlns:soap,attr"`
	Body    respBody `xml:"soap:Body"`
}

type respBody struct {
	Inner []byte `xml:",innerxml"`
}

// respond writes a successful response with the payload wrapped in the
// named body element.
func (s *Service) respond(w http.ResponseWriter, elem string, payload any) {
	inner, err := marshalElement(elem, payload)
	if err != nil {
		s.logger.Error("marshaling response", "element", elem, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeEnvelope(w, http.StatusOK, inner)
}

// fault writes a SOAP fault with HTTP status 500.
func (s *Service) fault(w http.ResponseWriter, code, reason string) {
	inner, err := marshalElement("Fault", faultPayload{Code: code, Reason: reason})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeEnvelope(w, http.StatusInternalServerError, inner)
}

func (s *Service) writeEnvelope(w http.ResponseWriter, status int, inner []byte) {
	env := respEnvelope{NS: envelopeNS, Body: respBody{Inner: inner}}
	out, err := xml.Marshal(env)
	if err != nil {
		s.logger.Error("marshaling envelope", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", `text/xml; charset="utf-8"`)
	w.WriteHeader(status)
	w.Write([]byte(xml.Header))
	w.Write(out)
}

// marshalElement renders payload as a single element with the given name.
func marshalElement(elem string, payload any) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	start := xml.StartElement{Name: xml.Name{Local: elem}}
	if err := enc.EncodeElement(payload, start); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
