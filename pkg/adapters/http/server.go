package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/eos"
	"github.com/aretw0/eos/internal/logging"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes one Analysis over HTTP. Every handler holds mu while it
// touches the analysis: the parameter store is not safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	analysis *eos.Analysis
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer serves the metrics of g on /metrics. Defaults to the global registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the analysis.
func NewHandler(a *eos.Analysis, opts ...Option) http.Handler {
	s := &Server{
		analysis: a,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/parameters", s.ListParameters)
	r.Put("/parameters/{name}", s.SetParameter)
	r.Get("/constraints", s.ListConstraints)
	r.Post("/constraints", s.AddConstraint)
	r.Get("/evaluate", s.Evaluate)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Float is a float64 that encodes non-finite values as null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Parameter is the wire form of one store entry.
type Parameter struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Unit  string  `json:"unit,omitempty"`
	Fixed bool    `json:"fixed,omitempty"`
}

// SetParameterRequest is the body of PUT /parameters/{name}.
type SetParameterRequest struct {
	Value *float64 `json:"value"`
}

// Constraint is the wire form of a constraint at the current point.
type Constraint struct {
	Name          string  `json:"name"`
	LogDensity    Float   `json:"log_density"`
	Observations  int     `json:"observations"`
	Significances []Float `json:"significances"`
	Description   string  `json:"description,omitempty"`
}

// AddConstraintRequest is the body of POST /constraints. Either Name selects
// a catalog entry, or Observable with Min, Central and Max builds an ad-hoc
// Gaussian constraint.
type AddConstraintRequest struct {
	Name         string             `json:"name,omitempty"`
	Observable   string             `json:"observable,omitempty"`
	Min          float64            `json:"min,omitempty"`
	Central      float64            `json:"central,omitempty"`
	Max          float64            `json:"max,omitempty"`
	Observations *int               `json:"observations,omitempty"`
	Kinematics   map[string]float64 `json:"kinematics,omitempty"`
	Options      map[string]string  `json:"options,omitempty"`
}

// EvaluateResponse is the body returned by GET /evaluate.
type EvaluateResponse struct {
	LogLikelihood Float `json:"log_likelihood"`
	Constraints   int   `json:"constraints"`
	Observations  int   `json:"observations"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    "eos",
		"version": strings.TrimSpace(eos.Version),
	})
}

// ListParameters handles the GET /parameters request.
func (s *Server) ListParameters(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var resp []Parameter
	for p := range s.analysis.Parameters().All() {
		resp = append(resp, Parameter{
			Name:  p.Name(),
			Value: p.Value(),
			Min:   p.Min(),
			Max:   p.Max(),
			Unit:  p.Unit(),
			Fixed: p.Fixed(),
		})
	}
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, resp)
}

// SetParameter handles the PUT /parameters/{name} request.
func (s *Server) SetParameter(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body SetParameterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		http.Error(w, "Invalid request body: expected {\"value\": number}", http.StatusBadRequest)
		s.logger.Warn("SetParameter: invalid request body", "parameter", name, "error", err)
		return
	}

	s.mu.Lock()
	err := s.analysis.Set(name, *body.Value)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Debug("parameter set", "parameter", name, "value", *body.Value)
	w.WriteHeader(http.StatusNoContent)
}

// ListConstraints handles the GET /constraints request.
func (s *Server) ListConstraints(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	summary := s.analysis.Summary()
	s.mu.Unlock()

	resp := make([]Constraint, len(summary))
	for i, c := range summary {
		resp[i] = Constraint{
			Name:          c.Name,
			LogDensity:    Float(c.LogDensity),
			Observations:  c.Observations,
			Significances: make([]Float, len(c.Significances)),
			Description:   c.Description,
		}
		for j, sig := range c.Significances {
			resp[i].Significances[j] = Float(sig)
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// AddConstraint handles the POST /constraints request.
func (s *Server) AddConstraint(w http.ResponseWriter, r *http.Request) {
	var body AddConstraintRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("AddConstraint: invalid request body", "error", err)
		return
	}
	if (body.Name == "") == (body.Observable == "") {
		http.Error(w, "Exactly one of name or observable is required", http.StatusBadRequest)
		return
	}

	o := domain.OptionsFromMap(body.Options)

	s.mu.Lock()
	var err error
	if body.Name != "" {
		err = s.analysis.AddConstraint(body.Name, o)
	} else {
		var k domain.Kinematics
		k, err = kinematicsFromMap(body.Kinematics)
		if err == nil {
			observations := 1
			if body.Observations != nil {
				observations = *body.Observations
			}
			err = s.analysis.AddGaussianConstraint(body.Observable, body.Min, body.Central, body.Max, observations, k, o)
		}
	}
	total := s.analysis.Likelihood().Len()
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int{"constraints": total})
}

// Evaluate handles the GET /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := EvaluateResponse{
		LogLikelihood: Float(s.analysis.Evaluate()),
		Constraints:   s.analysis.Likelihood().Len(),
		Observations:  s.analysis.Likelihood().NumberOfObservations(),
	}
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, resp)
}

func kinematicsFromMap(m map[string]float64) (domain.Kinematics, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]any, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, name, m[name])
	}
	return domain.NewKinematics(pairs...)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrUnknownParameter),
		errors.Is(err, domain.ErrUnknownConstraint),
		errors.Is(err, domain.ErrUnknownObservable):
		status = http.StatusNotFound
	}
	s.logger.Warn("request rejected", "status", status, "error", err)
	http.Error(w, fmt.Sprintf("%v", err), status)
}
