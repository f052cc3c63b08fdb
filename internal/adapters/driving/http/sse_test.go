package http

import (
	"net/http/httptest"
	"testing"

	"github.com/portico-labs/portico/internal/core/domain"
)

func TestSSEWriterHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	if _, err := newSSEWriter(rec); err != nil {
		t.Fatalf("newSSEWriter failed: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected no-cache, got %q", cc)
	}
}

func TestSSEWriterEventFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := newSSEWriter(rec)
	if err != nil {
		t.Fatalf("newSSEWriter failed: %v", err)
	}

	if err := sse.WriteEvent("token", map[string]string{"token": "Hi"}); err != nil {
		t.Fatalf("WriteEvent failed: %v", err)
	}

	want := "event: token\ndata: {\"token\":\"Hi\"}\n\n"
	if rec.Body.String() != want {
		t.Errorf("unexpected wire format:\ngot:  %q\nwant: %q", rec.Body.String(), want)
	}
}

func TestSSEWriterAnswerEvents(t *testing.T) {
	tests := []struct {
		name  string
		event domain.AnswerEvent
		want  string
	}{
		{
			name:  "context with snippets",
			event: domain.AnswerEvent{Type: domain.EventContext, Snippets: []domain.Snippet{{Text: "a", Score: 0.5}}},
			want:  "event: context\ndata: {\"snippets\":[[\"a\",0.5]]}\n\n",
		},
		{
			name:  "context with no snippets",
			event: domain.AnswerEvent{Type: domain.EventContext},
			want:  "event: context\ndata: {\"snippets\":[]}\n\n",
		},
		{
			name:  "token",
			event: domain.AnswerEvent{Type: domain.EventToken, Token: "He said \"hi\""},
			want:  "event: token\ndata: {\"token\":\"He said \\\"hi\\\"\"}\n\n",
		},
		{
			name:  "done",
			event: domain.AnswerEvent{Type: domain.EventDone, Text: "full answer"},
			want:  "event: done\ndata: {\"text\":\"full answer\"}\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			sse, err := newSSEWriter(rec)
			if err != nil {
				t.Fatalf("newSSEWriter failed: %v", err)
			}

			if err := sse.WriteAnswerEvent(tt.event); err != nil {
				t.Fatalf("WriteAnswerEvent failed: %v", err)
			}
			if rec.Body.String() != tt.want {
				t.Errorf("unexpected wire format:\ngot:  %q\nwant: %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestSSEWriterUnknownEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := newSSEWriter(rec)
	if err != nil {
		t.Fatalf("newSSEWriter failed: %v", err)
	}

	if err := sse.WriteAnswerEvent(domain.AnswerEvent{Type: "bogus"}); err == nil {
		t.Error("expected error for unknown event type")
	}
}
