package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/NikshepShetty/vaa-genai-technical-test/assistant"
	"github.com/NikshepShetty/vaa-genai-technical-test/embeddings"
	"github.com/NikshepShetty/vaa-genai-technical-test/retrieval"
	"github.com/NikshepShetty/vaa-genai-technical-test/store"
)

// AnswerService is the slice of the assistant the HTTP layer consumes.
type AnswerService interface {
	Answer(ctx context.Context, query, category string, k int) (assistant.Answer, error)
}

// Server exposes the help-assistant pipeline over HTTP.
type Server struct {
	svc     AnswerService
	logger  *log.Logger
	handler http.Handler
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type helpRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	TopK     int    `json:"top_k"`
}

type helpResponse struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence *float64 `json:"confidence"`
}

// New constructs a Server around an already-built answer service.
func New(svc AnswerService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{svc: svc, logger: logger}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/help-assistant", s.handleHelpAssistant)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Help Assistant API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	s.writeJSON(w, http.StatusOK, statusResponse{Status: "healthy"})
}

func (s *Server) handleHelpAssistant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	requestID := uuid.NewString()

	var req helpRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}

	s.logger.Printf("[%s] help query received", requestID)

	answer, err := s.svc.Answer(r.Context(), req.Query, req.Category, req.TopK)
	if err != nil {
		status := statusForError(err)
		s.logger.Printf("[%s] answer failed: %v", requestID, err)
		s.writeError(w, status, err)
		return
	}

	s.writeJSON(w, http.StatusOK, helpResponse{
		Answer:     answer.Text,
		Sources:    answer.Sources,
		Confidence: answer.Confidence,
	})
}

// statusForError maps the pipeline error taxonomy onto HTTP statuses:
// request-validation failures are the client's, infrastructure failures are
// ours.
func statusForError(err error) int {
	var invalidCategory *retrieval.InvalidCategoryError
	switch {
	case errors.As(err, &invalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, embeddings.ErrEmbedFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed, use %s", allowed))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
