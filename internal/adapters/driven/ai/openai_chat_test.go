package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
)

func sseChunk(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"content": content}},
		},
	})
	return fmt.Sprintf("data: %s\n\n", payload)
}

func TestNewOpenAIChat_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIChat("", "gpt-4o-mini", "")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenAIChat_Defaults(t *testing.T) {
	svc, err := NewOpenAIChat("sk-test", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Model() != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", svc.Model())
	}
}

func TestOpenAIChat_StreamChat(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, sseChunk("Hel"))
		_, _ = io.WriteString(w, sseChunk("lo"))
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	svc, err := NewOpenAIChat("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stream, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{Temperature: 0.4, MaxTokens: 600})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	if !gotReq.Stream {
		t.Error("expected stream flag in request")
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model: %s", gotReq.Model)
	}
	if gotReq.Temperature != 0.4 {
		t.Errorf("unexpected temperature: %f", gotReq.Temperature)
	}
	if gotReq.MaxTokens != 600 {
		t.Errorf("unexpected max tokens: %d", gotReq.MaxTokens)
	}

	var deltas []string
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		deltas = append(deltas, delta)
	}

	if len(deltas) != 2 || deltas[0] != "Hel" || deltas[1] != "lo" {
		t.Errorf("unexpected deltas: %v", deltas)
	}

	// Recv after exhaustion keeps returning EOF
	if _, err := stream.Recv(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF after exhaustion, got %v", err)
	}
}

func TestOpenAIChat_StreamChat_SkipsKeepaliveLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, ": keepalive\n\n")
		_, _ = io.WriteString(w, sseChunk("only"))
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	svc, _ := NewOpenAIChat("sk-test", "", server.URL)
	stream, err := svc.StreamChat(context.Background(), nil, driven.ChatOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	delta, err := stream.Recv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delta != "only" {
		t.Errorf("expected delta %q, got %q", "only", delta)
	}
}

func TestOpenAIChat_StreamChat_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error": {"message": "rate limited"}}`)
	}))
	defer server.Close()

	svc, _ := NewOpenAIChat("sk-test", "", server.URL)
	if _, err := svc.StreamChat(context.Background(), nil, driven.ChatOptions{}); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestOpenAIChat_StreamChat_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the provider with a cancelled context")
	}))
	defer server.Close()

	svc, _ := NewOpenAIChat("sk-test", "", server.URL)
	if _, err := svc.StreamChat(ctx, nil, driven.ChatOptions{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestOpenAIChat_StreamEndsWithoutDoneMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, sseChunk("partial"))
		// Connection closes without a [DONE] line.
	}))
	defer server.Close()

	svc, _ := NewOpenAIChat("sk-test", "", server.URL)
	stream, err := svc.StreamChat(context.Background(), nil, driven.ChatOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	if delta, err := stream.Recv(); err != nil || delta != "partial" {
		t.Fatalf("unexpected first recv: %q, %v", delta, err)
	}
	if _, err := stream.Recv(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF when the stream ends, got %v", err)
	}
}
