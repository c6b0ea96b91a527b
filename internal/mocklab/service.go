// Package mocklab is an in-process analysis service speaking the toolkit's
// SOAP protocol. It ships a small application catalog (edit::seqret) so the
// client, the CLI and the end-to-end tests can run without a real service.
package mocklab

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Job status vocabulary on the wire.
const (
	statusCreated           = "CREATED"
	statusRunning           = "RUNNING"
	statusCompleted         = "COMPLETED"
	statusTerminatedByError = "TERMINATED_BY_ERROR"
	statusTerminatedByReq   = "TERMINATED_BY_REQUEST"
)

// Service is the mock analysis service.
type Service struct {
	logger *slog.Logger
	router chi.Router

	// runDelay is how many status polls a job reports CREATED/RUNNING
	// before turning COMPLETED.
	runDelay int

	mu   sync.Mutex
	apps map[string]*App
	jobs map[string]*job
}

// App is one mock analysis in the catalog, keyed by its dotted service
// name (e.g. "edit.seqret").
type App struct {
	Name        string // hierarchical name, e.g. "edit::seqret"
	Type        string
	Description string
	Inputs      []Param
	Results     []Param

	// Run computes the results from the submitted inputs.
	Run func(inputs map[string][]byte) (map[string][]byte, error)
}

// Param describes one declared input or result.
type Param struct {
	Name      string
	Type      string
	Mandatory bool
	Default   string
	Allowed   []string
}

// job is one submitted execution.
type job struct {
	token   string
	status  string
	polls   int
	results map[string][]byte
	reason  string // failure reason, when terminated by error
	created time.Time
	started time.Time
	ended   time.Time
}

// Option configures the service.
type Option func(*Service)

// WithRunDelay makes jobs stay non-terminal for the given number of status
// polls. The default is zero: jobs complete immediately.
func WithRunDelay(polls int) Option {
	return func(s *Service) {
		s.runDelay = polls
	}
}

// New creates a mock service with the built-in application catalog.
// logger may be nil.
func New(logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		logger: logger.With("component", "mocklab"),
		apps:   map[string]*App{},
		jobs:   map[string]*job{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.RegisterApp("edit.seqret", seqretApp())
	s.routes()
	return s
}

// RegisterApp adds an application under the given dotted service name.
func (s *Service) RegisterApp(service string, app *App) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[service] = app
}

// Handler returns the HTTP handler of the service.
func (s *Service) Handler() http.Handler {
	return s.router
}

func (s *Service) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Post("/{service}", s.handleCall)

	s.router = r
}

// rpcEnvelope strips the SOAP envelope from an incoming request.
type rpcEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Raw []byte `xml:",innerxml"`
	} `xml:"Body"`
}

// rpcCall is the method element of an incoming request.
type rpcCall struct {
	XMLName    xml.Name
	JobID      string      `xml:"jobId"`
	ResultName string      `xml:"resultName"`
	Inputs     []wireValue `xml:"input"`
}

func (s *Service) handleCall(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.fault(w, "Client", fmt.Sprintf("reading request: %v", err))
		return
	}
	var env rpcEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		s.fault(w, "Client", fmt.Sprintf("malformed envelope: %v", err))
		return
	}
	var call rpcCall
	if err := xml.Unmarshal(env.Body.Raw, &call); err != nil {
		s.fault(w, "Client", fmt.Sprintf("malformed call: %v", err))
		return
	}
	method := call.XMLName.Local

	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[service]
	if !ok {
		s.fault(w, "Client", fmt.Sprintf("unknown analysis service %q", service))
		return
	}
	s.logger.Debug("call", "service", service, "method", method, "job", call.JobID)

	switch method {
	case "describe":
		s.respond(w, "describeResponse", describePayload{
			Name:        app.Name,
			Type:        app.Type,
			Version:     "1.0",
			Description: app.Description,
			Supplier:    "mocklab",
		})
	case "getInputSpec":
		s.respond(w, "getInputSpecResponse", specPayload{Params: wireParams(app.Inputs)})
	case "getResultSpec":
		s.respond(w, "getResultSpecResponse", specPayload{Params: wireParams(app.Results)})
	case "createAndRun":
		s.createAndRun(w, app, call)
	case "getStatus":
		s.getStatus(w, call)
	case "getTimes":
		s.getTimes(w, call)
	case "getResult":
		s.getResult(w, call)
	case "getResults":
		s.getResults(w, call)
	case "destroy":
		delete(s.jobs, call.JobID)
		s.respond(w, "destroyResponse", struct{}{})
	default:
		s.fault(w, "Client", fmt.Sprintf("unknown method %q", method))
	}
}

func (s *Service) createAndRun(w http.ResponseWriter, app *App, call rpcCall) {
	inputs := make(map[string][]byte, len(call.Inputs))
	for _, in := range call.Inputs {
		value, err := in.decode()
		if err != nil {
			s.fault(w, "Client", err.Error())
			return
		}
		inputs[in.Name] = value
	}

	j := &job{
		token:   newToken(),
		status:  statusCreated,
		polls:   s.runDelay,
		created: time.Now(),
		started: time.Now(),
	}

	// The mock runs the app synchronously at submission; runDelay only
	// staggers what status polls report.
	results, err := app.Run(inputs)
	if err != nil {
		j.reason = err.Error()
		s.logger.Debug("app failed", "app", app.Name, "reason", j.reason)
	}
	j.results = results
	j.ended = time.Now()

	s.jobs[j.token] = j
	s.respond(w, "createAndRunResponse", submitPayload{JobID: j.token})
}

// advance moves the job's reported status one poll forward.
func (j *job) advance() string {
	if j.polls > 0 {
		j.polls--
		if j.status == statusCreated {
			j.status = statusRunning
		}
		return j.status
	}
	if j.reason != "" {
		j.status = statusTerminatedByError
	} else {
		j.status = statusCompleted
	}
	return j.status
}

func (s *Service) getStatus(w http.ResponseWriter, call rpcCall) {
	j, ok := s.jobs[call.JobID]
	if !ok {
		s.fault(w, "Client", fmt.Sprintf("unknown job %q", call.JobID))
		return
	}
	s.respond(w, "getStatusResponse", statusPayload{Status: j.advance()})
}

func (s *Service) getTimes(w http.ResponseWriter, call rpcCall) {
	j, ok := s.jobs[call.JobID]
	if !ok {
		s.fault(w, "Client", fmt.Sprintf("unknown job %q", call.JobID))
		return
	}
	p := timesPayload{Created: j.created.UnixMilli(), Started: j.started.UnixMilli()}
	if j.status == statusCompleted || j.status == statusTerminatedByError || j.polls == 0 {
		p.Ended = j.ended.UnixMilli()
	}
	s.respond(w, "getTimesResponse", p)
}

func (s *Service) getResult(w http.ResponseWriter, call rpcCall) {
	j, ok := s.jobs[call.JobID]
	if !ok {
		s.fault(w, "Client", fmt.Sprintf("unknown job %q", call.JobID))
		return
	}
	if j.reason != "" {
		s.fault(w, "Server", j.reason)
		return
	}
	value, ok := j.results[call.ResultName]
	if !ok {
		s.fault(w, "Client", fmt.Sprintf("no result named %q", call.ResultName))
		return
	}
	s.respond(w, "getResultResponse", resultsPayload{
		Results: []wireValue{encodeValue(call.ResultName, value)},
	})
}

func (s *Service) getResults(w http.ResponseWriter, call rpcCall) {
	j, ok := s.jobs[call.JobID]
	if !ok {
		s.fault(w, "Client", fmt.Sprintf("unknown job %q", call.JobID))
		return
	}
	if j.reason != "" {
		s.fault(w, "Server", j.reason)
		return
	}
	p := resultsPayload{}
	for name, value := range j.results {
		p.Results = append(p.Results, encodeValue(name, value))
	}
	s.respond(w, "getResultsResponse", p)
}

// newToken mints a server-side job token of the documented
// "<hex>:<hex>:<hex>" shape.
func newToken() string {
	u := uuid.New()
	return fmt.Sprintf("%x:%x:%x", u[0:4], u[4:8], u[8:16])
}
