// Package server hosts evaluation sessions over HTTP. It exposes a small
// JSON API: evaluate source against a session, list the registered
// operations, and manage session lifecycle. Plot values are returned as
// raw numeric arrays; rendering is the client's concern.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mathlang/internal/evaluator"
	"mathlang/internal/object"
	"mathlang/internal/operation"
	"mathlang/internal/store"
)

type Server struct {
	registry *operation.Registry
	maxDepth int
	sessions *SessionManager
}

func New(registry *operation.Registry, maxDepth int, ttl time.Duration, st *store.Store) *Server {
	return &Server{
		registry: registry,
		maxDepth: maxDepth,
		sessions: NewSessionManager(ttl, st),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /api/operations", s.handleOperations)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/clear", s.handleClearSession)
	return mux
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	slog.Info("listening", slog.String("addr", addr))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return httpServer.ListenAndServe()
}

type evaluateRequest struct {
	Source    string `json:"source"`
	SessionID string `json:"session_id,omitempty"`
}

type evaluateResult struct {
	Value        string `json:"value"`
	TypeName     string `json:"type_name"`
	IsAssignment bool   `json:"is_assignment"`
	VariableName string `json:"variable_name,omitempty"`
	Plot         any    `json:"plot,omitempty"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type evaluateResponse struct {
	SessionID string                     `json:"session_id"`
	Results   []evaluateResult           `json:"results"`
	ElapsedMs float64                    `json:"elapsed_ms"`
	Variables map[string]VariableBinding `json:"variables"`
	Error     *errorDetail               `json:"error,omitempty"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	info := s.sessions.GetOrCreate(req.SessionID)
	info.Eval.Lock()
	defer info.Eval.Unlock()

	// The tree-walk evaluator carries recursion state, so each request
	// gets its own.
	eval := evaluator.NewWithDepth(s.registry, s.maxDepth)

	start := time.Now()
	results, evalErr := eval.EvalScript(req.Source, info.Session)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	response := evaluateResponse{
		SessionID: info.ID,
		Results:   make([]evaluateResult, 0, len(results)),
		ElapsedMs: elapsed,
		Variables: info.variables(),
	}
	for _, result := range results {
		response.Results = append(response.Results, evaluateResult{
			Value:        result.Value.Inspect(),
			TypeName:     result.TypeName,
			IsAssignment: result.IsAssignment,
			VariableName: result.VariableName,
			Plot:         plotPayload(result.Value),
		})
	}
	if evalErr != nil {
		response.Error = &errorDetail{
			Kind:    string(evalErr.Kind),
			Message: evalErr.Message,
			Line:    evalErr.Line,
			Column:  evalErr.Column,
		}
	}

	s.sessions.Persist(info)
	writeJSON(w, http.StatusOK, response)
}

// plotPayload returns the raw data arrays for plot-kind values, nil for
// everything else. The structs carry their own json tags.
func plotPayload(value object.Object) any {
	switch v := value.(type) {
	case *object.PlotData2D, *object.PlotData3D, *object.HistogramData, *object.ScatterData:
		return v
	case *object.List:
		// MultiPlot yields a list of plots
		plots := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			p := plotPayload(item)
			if p == nil {
				return nil
			}
			plots = append(plots, p)
		}
		if len(plots) == 0 {
			return nil
		}
		return plots
	}
	return nil
}

type operationInfo struct {
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type operationsResponse struct {
	Operations []operationInfo `json:"operations"`
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	ops := s.registry.All()
	response := operationsResponse{Operations: make([]operationInfo, 0, len(ops))}
	for _, op := range ops {
		response.Operations = append(response.Operations, operationInfo{
			Identifier:  op.Identifier,
			Name:        op.Name,
			Description: op.Description,
			Category:    op.Category,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

type sessionResponse struct {
	SessionID    string                     `json:"session_id"`
	CreatedAt    float64                    `json:"created_at"`
	LastAccessed float64                    `json:"last_accessed"`
	Variables    map[string]VariableBinding `json:"variables"`
}

func sessionJSON(info *SessionInfo) sessionResponse {
	return sessionResponse{
		SessionID:    info.ID,
		CreatedAt:    float64(info.CreatedAt.UnixMilli()) / 1000,
		LastAccessed: float64(info.LastAccessed.UnixMilli()) / 1000,
		Variables:    info.variables(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	info := s.sessions.Create()
	writeJSON(w, http.StatusOK, sessionJSON(info))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info := s.sessions.Get(r.PathValue("id"))
	if info == nil {
		httpError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionJSON(info))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.sessions.List()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(r.PathValue("id")) {
		httpError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	info := s.sessions.Clear(r.PathValue("id"))
	if info == nil {
		httpError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionJSON(info))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("response encode failed", slog.Any("error", err))
	}
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}
