package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/graphgen"
	"github.com/matzehuels/kgraph/pkg/pipeline"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// createGraphRequest is accepted by POST /api/graphs. The graph may be
// sent bare or wrapped with a name.
type createGraphRequest struct {
	Name string `json:"name,omitempty"`
	graph.Graph
}

type graphgenRequest struct {
	Documents []graphgen.Document `json:"documents"`
	Store     bool                `json:"store,omitempty"`
	Name      string              `json:"name,omitempty"`
}

type graphgenResponse struct {
	ID    string      `json:"id,omitempty"`
	Graph graph.Graph `json:"graph"`
}

type layoutRequest struct {
	pipeline.Options
	Graph graph.Graph `json:"graph"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.Version,
	})
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, graph.Sample())
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req createGraphRequest
	if !s.decode(w, r, &req) {
		return
	}
	rec, err := s.cfg.Store.Create(r.Context(), req.Name, req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored graph", "id", rec.ID, "nodes", len(rec.Graph.Nodes), "edges", len(rec.Graph.Edges))
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": rec.ID})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGraphgen(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Generator == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "graph generation is not configured"))
		return
	}
	var req graphgenRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := graphgen.ValidateDocuments(req.Documents); err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.cfg.Generator.Generate(r.Context(), req.Documents)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := graphgenResponse{Graph: g}
	if req.Store {
		rec, err := s.cfg.Store.Create(r.Context(), req.Name, g)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.ID = rec.ID
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := graph.Validate(req.Graph); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.layout(w, r, graph.Normalize(req.Graph), req.Options)
}

func (s *Server) handleStoredLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := layoutQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.layout(w, r, rec.Graph, opts)
}

// layout runs the pipeline and writes the result in the requested format.
func (s *Server) layout(w http.ResponseWriter, r *http.Request, g graph.Graph, opts pipeline.Options) {
	res, err := s.cfg.Runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch opts.Format {
	case "", pipeline.FormatJSON:
		s.writeJSON(w, http.StatusOK, res.Layout)
		return
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// layoutQuery reads pipeline options from query parameters.
func layoutQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Focus:  q.Get("focus"),
		Format: q.Get("format"),
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", v)
		}
		opts.Seed = &seed
	}
	for name, dst := range map[string]*bool{
		"concentric":     &opts.Concentric,
		"strict":         &opts.Strict,
		"detailed":       &opts.Detailed,
		"include_hidden": &opts.IncludeHidden,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, v)
		}
		*dst = b
	}
	if v := q.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid radius %q", v)
		}
		opts.BaseRadius = radius
	}
	return opts, nil
}

// decode reads a JSON body into v, writing an error response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			err = errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		case stderrors.Is(err, io.EOF):
			err = errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		default:
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
		}
		s.writeError(w, r, err)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()))
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: msg})
}
