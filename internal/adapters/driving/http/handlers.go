package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/portico-labs/portico/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// AskRequest is the question payload
// @Description Question to answer against the corpus
type AskRequest struct {
	Question string `json:"question" example:"What did you build at your last job?"`
}

// RetrieveRequest asks for ranked snippets without generation
type RetrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// UploadRequest is a document upload payload
type UploadRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Checks backing store and queue connectivity
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.taskQueue != nil {
		if err := s.taskQueue.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "task queue unavailable")
			return
		}
	}
	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "embedding provider unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoint

// handleToken godoc
// @Summary      Exchange admin key for a token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.TokenRequest  true  "Admin key"
// @Success      200      {object}  domain.TokenResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid admin key"
// @Router       /auth/token [post]
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid admin key")
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "admin access not configured")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Answering endpoints

// handleAsk godoc
// @Summary      Ask a question
// @Description  Streams the answer as server-sent events: one context event,
// @Description  token events, then a done event with the full text.
// @Tags         Answering
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body  AskRequest  true  "Question"
// @Failure      400  {object}  ErrorResponse  "Missing or empty question"
// @Failure      502  {object}  ErrorResponse  "Provider failure"
// @Router       /ask [post]
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validation and retrieval errors surface as plain JSON before any
	// SSE bytes are written
	events, err := s.answerService.Ask(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "question is required")
		case errors.Is(err, domain.ErrProviderUnavailable):
			writeError(w, http.StatusBadGateway, "provider unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "failed to answer")
		}
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	for ev := range events {
		if err := sse.WriteAnswerEvent(ev); err != nil {
			// Client went away; the service notices via request context
			return
		}
	}
}

// handleRetrieve godoc
// @Summary      Retrieve ranked snippets
// @Tags         Answering
// @Accept       json
// @Produce      json
// @Param        request  body  RetrieveRequest  true  "Query"
// @Failure      400  {object}  ErrorResponse
// @Router       /retrieve [post]
func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snippets, err := s.answerService.Retrieve(r.Context(), req.Query, req.TopK)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "query is required")
		default:
			writeError(w, http.StatusInternalServerError, "retrieval failed")
		}
		return
	}
	if snippets == nil {
		snippets = []domain.Snippet{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"snippets": snippets})
}

// Document endpoints

// handleUploadDocument godoc
// @Summary      Upload a document
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      UploadRequest  true  "Document text"
// @Success      201      {object}  domain.Document
// @Failure      400      {object}  ErrorResponse
// @Router       /documents [post]
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.ingestService.Upload(r.Context(), req.Filename, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "filename and content are required")
		default:
			writeError(w, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// handleListDocuments godoc
// @Summary      List documents
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.ingestService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []*domain.Document{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleGetDocument godoc
// @Summary      Get a document
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ingestService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete a document and its chunks
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	existed, err := s.ingestService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Re-ingestion endpoints

// handleReingestAll godoc
// @Summary      Re-ingest the whole corpus in the background
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  map[string]string
// @Router       /documents/reingest [post]
func (s *Server) handleReingestAll(w http.ResponseWriter, r *http.Request) {
	task := domain.NewReingestAllTask()
	if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to enqueue re-ingestion")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"task_id": task.ID,
	})
}

// handleReingestDocument godoc
// @Summary      Re-ingest one document in the background
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Document ID"
// @Success      202  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/reingest [post]
func (s *Server) handleReingestDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Reject unknown ids up front instead of failing in the worker
	if _, err := s.ingestService.Get(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return
	}

	task := domain.NewReingestDocumentTask(id)
	if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to enqueue re-ingestion")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"task_id": task.ID,
	})
}

// Collection endpoints

// handleReset godoc
// @Summary      Destroy all chunks and document records
// @Tags         Collection
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Router       /collection/reset [post]
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ingestService.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStats godoc
// @Summary      Collection statistics
// @Tags         Collection
// @Produce      json
// @Success      200  {object}  domain.CollectionStats
// @Router       /collection/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ingestService.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
