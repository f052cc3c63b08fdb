package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/portico-labs/portico/internal/core/domain"
)

// sseWriter emits server-sent events and flushes after each one so
// tokens reach the client as they are generated.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newSSEWriter prepares the response for event streaming
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Disable proxy buffering so events are not held back
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sseWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends one named event with a JSON payload
func (s *sseWriter) WriteEvent(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", name, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteAnswerEvent maps a domain answer event onto the wire
func (s *sseWriter) WriteAnswerEvent(ev domain.AnswerEvent) error {
	switch ev.Type {
	case domain.EventContext:
		snippets := ev.Snippets
		if snippets == nil {
			snippets = []domain.Snippet{}
		}
		return s.WriteEvent("context", map[string]any{"snippets": snippets})
	case domain.EventToken:
		return s.WriteEvent("token", map[string]string{"token": ev.Token})
	case domain.EventDone:
		return s.WriteEvent("done", map[string]string{"text": ev.Text})
	default:
		return fmt.Errorf("unknown answer event type %q", ev.Type)
	}
}
