// Package http exposes the engine over a JSON HTTP API: call uploads,
// result retrieval, and tree introspection. The transport layer holds no
// engine opinions; it seeds a run and renders the resulting record.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 32 << 20

// Runner is the engine surface the server needs.
type Runner interface {
	Run(ctx context.Context, seed map[string]any) (*domain.Record, error)
	Tree() *domain.Tree
}

// Server wires the engine and the record store into HTTP handlers.
type Server struct {
	runner Runner
	store  ports.RecordStore
	logger *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(runner Runner, store ports.RecordStore, opts ...Option) http.Handler {
	s := &Server{
		runner: runner,
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.Health)
	r.Get("/tree", s.TreeStructure)
	r.Post("/process-call", s.ProcessCall)
	r.Get("/results/{callID}", s.Result)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "API is running",
	})
}

// nodeSummary is the introspection shape for one node.
type nodeSummary struct {
	ID      string      `json:"id"`
	Name    string      `json:"display_name,omitempty"`
	Kind    domain.Kind `json:"kind"`
	Targets []string    `json:"targets,omitempty"`
}

// TreeStructure handles GET /tree: a summary of the loaded decision tree.
func (s *Server) TreeStructure(w http.ResponseWriter, r *http.Request) {
	tree := s.runner.Tree()
	nodes := make([]nodeSummary, 0, len(tree.Nodes))
	for id, node := range tree.Nodes {
		nodes = append(nodes, nodeSummary{
			ID:      id,
			Name:    node.Name,
			Kind:    node.Kind,
			Targets: node.Targets(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tree_name":  tree.Name,
		"start_node": tree.StartNode,
		"nodes":      nodes,
	})
}

// ProcessCall handles POST /process-call. The audio file is accepted,
// the run is started in the background, and the call ID is returned
// immediately; callers poll /results/{callID}.
func (s *Server) ProcessCall(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart request", http.StatusBadRequest)
		s.logger.Warn("process-call: bad multipart body", "error", err)
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		http.Error(w, "audio_file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read audio_file", http.StatusInternalServerError)
		s.logger.Error("process-call: read upload failed", "error", err)
		return
	}

	callID := r.FormValue("call_id")
	if callID == "" {
		callID = uuid.New().String()
	}

	seed := map[string]any{
		"call_id":      callID,
		"filename":     header.Filename,
		"audio":        audio,
		"submitted_at": time.Now().UTC().Format(time.RFC3339),
	}

	s.logger.Info("call accepted", "call_id", callID, "filename", header.Filename)

	// Detached from the request context: the run outlives the response.
	go s.processInBackground(callID, seed)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"call_id": callID,
		"status":  "accepted",
	})
}

func (s *Server) processInBackground(callID string, seed map[string]any) {
	ctx := context.Background()

	rec, err := s.runner.Run(ctx, seed)
	if err != nil {
		s.logger.Error("run failed to start", "call_id", callID, "error", err)
		rec = &domain.Record{
			Status: domain.StatusFailed,
			Failure: &domain.Failure{
				Kind:    domain.FailureCapability,
				Message: err.Error(),
			},
		}
	}

	if err := s.store.Save(ctx, callID, rec); err != nil {
		s.logger.Error("failed to save record", "call_id", callID, "error", err)
		return
	}
	s.logger.Info("call processed", "call_id", callID, "status", rec.Status)
}

// Result handles GET /results/{callID}.
func (s *Server) Result(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")

	rec, err := s.store.Load(r.Context(), callID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			http.Error(w, "result not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load result", http.StatusInternalServerError)
		s.logger.Error("result lookup failed", "call_id", callID, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"call_id": callID,
		"record":  rec,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
