package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/linkgraph/pkg/docgraph"
	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

// =============================================================================
// Request and response types
// =============================================================================

// GraphRequest asks for the graph around a focus document.
type GraphRequest struct {
	Focus    string `json:"focus" validate:"required,max=4096"`
	MaxDepth int    `json:"max_depth,omitempty" validate:"gte=0"`
	MaxNodes int    `json:"max_nodes,omitempty" validate:"gte=0"`
	// NoExternal omits external domain nodes and edges.
	NoExternal bool `json:"no_external,omitempty"`

	// Layout, when set, positions the nodes with that algorithm.
	Layout      string `json:"layout,omitempty" validate:"omitempty,oneof=force hierarchical dot"`
	Incremental bool   `json:"incremental,omitempty"`
	// GraphID keys saved positions. Defaults to the focus path.
	GraphID string `json:"graph_id,omitempty" validate:"omitempty,max=256"`
}

// LayoutInfo summarizes a layout run.
type LayoutInfo struct {
	Algorithm  string  `json:"algorithm"`
	CacheHit   bool    `json:"cache_hit"`
	Skipped    bool    `json:"skipped"`
	Added      int     `json:"added"`
	DurationMS float64 `json:"duration_ms"`
}

// GraphResponse is a built graph.
type GraphResponse struct {
	BuildID           string       `json:"build_id"`
	GraphID           string       `json:"graph_id"`
	Nodes             []graph.Node `json:"nodes"`
	Edges             []graph.Edge `json:"edges"`
	TotalDocuments    int          `json:"total_documents"`
	LoadedDocuments   int          `json:"loaded_documents"`
	HasMore           bool         `json:"has_more"`
	DomainCount       int          `json:"domain_count"`
	ExternalLinkCount int          `json:"external_link_count"`
	Layout            *LayoutInfo  `json:"layout,omitempty"`
}

// LayoutRequest asks for positions of a client-supplied graph.
type LayoutRequest struct {
	GraphID     string       `json:"graph_id,omitempty" validate:"omitempty,max=256"`
	Nodes       []graph.Node `json:"nodes" validate:"required"`
	Edges       []graph.Edge `json:"edges"`
	Algorithm   string       `json:"algorithm,omitempty" validate:"omitempty,oneof=force hierarchical dot"`
	Incremental bool         `json:"incremental,omitempty"`
}

// LayoutResponse carries positioned nodes.
type LayoutResponse struct {
	Nodes  []graph.Node `json:"nodes"`
	Layout LayoutInfo   `json:"layout"`
}

// InvalidateRequest lists root-relative paths to drop from the parse cache.
type InvalidateRequest struct {
	Paths []string `json:"paths" validate:"required,min=1,max=10000,dive,required,max=4096"`
}

// ErrorDetail is the code and message of a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.buildGraph(r.Context(), req, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// buildGraph runs a build and, when requested, a layout.
func (s *Server) buildGraph(ctx context.Context, req GraphRequest, onProgress func(docgraph.Progress)) (*GraphResponse, error) {
	res, err := s.runner.BuildGraphData(ctx, pipeline.BuildOptions{
		FocusFile:  req.Focus,
		MaxDepth:   req.MaxDepth,
		MaxNodes:   req.MaxNodes,
		OnProgress: onProgress,
	})
	if err != nil {
		return nil, err
	}

	g := res.Graph(!req.NoExternal)
	graphID := req.GraphID
	if graphID == "" {
		graphID = req.Focus
	}
	resp := &GraphResponse{
		BuildID:           res.BuildID,
		GraphID:           graphID,
		Nodes:             g.Nodes,
		Edges:             g.Edges,
		TotalDocuments:    res.TotalDocuments,
		LoadedDocuments:   res.LoadedDocuments,
		HasMore:           res.HasMore,
		DomainCount:       res.External.DomainCount,
		ExternalLinkCount: res.External.LinkCount,
	}
	if req.Layout == "" {
		return resp, nil
	}

	laid, err := s.runner.ApplyLayout(ctx, graphID, g.Nodes, g.Edges, pipeline.LayoutOptions{
		Algorithm:   req.Layout,
		Incremental: req.Incremental,
	})
	if err != nil {
		return nil, err
	}
	resp.Nodes = laid.Nodes
	resp.Layout = layoutInfo(laid)
	return resp, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := (graph.Graph{Nodes: req.Nodes, Edges: req.Edges}).Validate(); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid graph: %v", err))
		return
	}
	laid, err := s.runner.ApplyLayout(r.Context(), req.GraphID, req.Nodes, req.Edges, pipeline.LayoutOptions{
		Algorithm:   req.Algorithm,
		Incremental: req.Incremental,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{Nodes: laid.Nodes, Layout: *layoutInfo(laid)})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.runner.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if !s.decode(w, r, &req) {
		return
	}
	for _, p := range req.Paths {
		if err := errors.ValidatePath(p); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.runner.InvalidateCache(req.Paths...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.CacheStats())
}

func (s *Server) handleClearPositions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "graphID")
	if !s.runner.HasSavedPositions(id) {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no saved positions for %q", id))
		return
	}
	s.runner.ClearPositions(id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func layoutInfo(r *pipeline.LayoutResult) *LayoutInfo {
	return &LayoutInfo{
		Algorithm:  r.Algorithm,
		CacheHit:   r.CacheHit,
		Skipped:    r.Skipped,
		Added:      r.Added,
		DurationMS: float64(r.Duration) / float64(time.Millisecond),
	}
}

// decode reads a JSON body into v and validates it, replying with 400 on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err))
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.writeError(w, validationError(err))
		return false
	}
	return true
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.New(errors.ErrCodeInvalidInput, "field %s failed %q validation", fe.Field(), fe.Tag())
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
}

func errorBody(err error) ErrorResponse {
	var body ErrorResponse
	body.Error.Code = string(errors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	return body
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.Status(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, code, errorBody(err))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
