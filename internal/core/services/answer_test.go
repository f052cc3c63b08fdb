package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven/mocks"
)

func newTestAnswerService(gen *mocks.MockGenerationService) (*answerService, *mocks.MockVectorStore, *mocks.MockEmbeddingService) {
	embedding := mocks.NewMockEmbeddingService()
	store := mocks.NewMockVectorStore()
	retriever := NewRetriever(embedding, store)
	svc := NewAnswerService(retriever, gen, AnswerConfig{Persona: "Miguel"}, nil).(*answerService)
	return svc, store, embedding
}

func collectEvents(t *testing.T, events <-chan domain.AnswerEvent) []domain.AnswerEvent {
	t.Helper()
	var got []domain.AnswerEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("timed out draining answer events")
		}
	}
}

func TestAnswerService_Ask_EventSequence(t *testing.T) {
	gen := mocks.NewMockGenerationService("Hel", "lo")
	svc, store, _ := newTestAnswerService(gen)

	_ = store.Upsert(context.Background(), "doc-1", []string{"I build Go services."}, domain.DocumentMeta{})
	store.SetScore("doc-1_0", 0.9)

	events, err := svc.Ask(context.Background(), "What do you do?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := collectEvents(t, events)
	if len(got) != 4 {
		t.Fatalf("expected 4 events (context, 2 tokens, done), got %d: %+v", len(got), got)
	}

	if got[0].Type != domain.EventContext {
		t.Errorf("expected first event to be context, got %s", got[0].Type)
	}
	if len(got[0].Snippets) != 1 || got[0].Snippets[0].Text != "I build Go services." {
		t.Errorf("unexpected context snippets: %+v", got[0].Snippets)
	}

	if got[1].Type != domain.EventToken || got[1].Token != "Hel" {
		t.Errorf("unexpected second event: %+v", got[1])
	}
	if got[2].Type != domain.EventToken || got[2].Token != "lo" {
		t.Errorf("unexpected third event: %+v", got[2])
	}

	if got[3].Type != domain.EventDone || got[3].Text != "Hello" {
		t.Errorf("unexpected done event: %+v", got[3])
	}
}

func TestAnswerService_Ask_SuppressesEmptyDeltas(t *testing.T) {
	gen := mocks.NewMockGenerationService("", "Hi", "", "!")
	svc, _, _ := newTestAnswerService(gen)

	events, err := svc.Ask(context.Background(), "Say hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := collectEvents(t, events)
	tokens := 0
	for _, ev := range got {
		if ev.Type == domain.EventToken {
			tokens++
			if ev.Token == "" {
				t.Error("emitted token event with empty fragment")
			}
		}
	}
	if tokens != 2 {
		t.Errorf("expected 2 token events, got %d", tokens)
	}
	last := got[len(got)-1]
	if last.Type != domain.EventDone || last.Text != "Hi!" {
		t.Errorf("unexpected done event: %+v", last)
	}
}

func TestAnswerService_Ask_EmptyQuestion(t *testing.T) {
	gen := mocks.NewMockGenerationService("unused")
	svc, _, _ := newTestAnswerService(gen)

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Ask(context.Background(), q); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("question %q: expected ErrInvalidInput, got %v", q, err)
		}
	}
}

func TestAnswerService_Ask_RetrievalFailure(t *testing.T) {
	gen := mocks.NewMockGenerationService("unused")
	svc, _, embedding := newTestAnswerService(gen)

	embedding.SetFailNext(true)
	events, err := svc.Ask(context.Background(), "What do you do?")
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
	if events != nil {
		t.Error("expected no event channel on retrieval failure")
	}
}

func TestAnswerService_Ask_GenerationOpenFailure(t *testing.T) {
	gen := mocks.NewMockGenerationService()
	gen.SetOpenError(errors.New("rate limited"))
	svc, _, _ := newTestAnswerService(gen)

	events, err := svc.Ask(context.Background(), "What do you do?")
	if err == nil {
		t.Fatal("expected error when opening the generation stream fails")
	}
	if events != nil {
		t.Error("expected no event channel when the stream cannot open")
	}
}

func TestAnswerService_Ask_PromptContainsRetrievedContext(t *testing.T) {
	gen := mocks.NewMockGenerationService("ok")
	svc, store, _ := newTestAnswerService(gen)

	_ = store.Upsert(context.Background(), "doc-1", []string{"Ten years of Go."}, domain.DocumentMeta{})
	store.SetScore("doc-1_0", 0.8)

	events, err := svc.Ask(context.Background(), "Experience?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	collectEvents(t, events)

	msgs := gen.LastMessages()
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(msgs))
	}
	if msgs[0].Role != domain.RoleSystem || !strings.Contains(msgs[0].Content, "Miguel") {
		t.Errorf("unexpected system message: %+v", msgs[0])
	}
	if msgs[1].Role != domain.RoleUser {
		t.Errorf("expected user role, got %s", msgs[1].Role)
	}
	if !strings.Contains(msgs[1].Content, "[[CTX 1]]\nTen years of Go.") {
		t.Errorf("user prompt missing labeled context:\n%s", msgs[1].Content)
	}
	if !strings.Contains(msgs[1].Content, "Question: Experience?") {
		t.Errorf("user prompt missing question:\n%s", msgs[1].Content)
	}

	opts := gen.LastOptions()
	if opts.Temperature != 0.4 {
		t.Errorf("expected default temperature 0.4, got %f", opts.Temperature)
	}
	if opts.MaxTokens != 600 {
		t.Errorf("expected default max tokens 600, got %d", opts.MaxTokens)
	}
}

func TestAnswerService_Ask_ConsumerCancellation(t *testing.T) {
	gen := mocks.NewMockGenerationService(manyDeltas(1000)...)
	svc, _, _ := newTestAnswerService(gen)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := svc.Ask(ctx, "Long answer please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Read a couple of events, then walk away.
	<-events
	<-events
	cancel()

	// The pump must close the channel rather than block forever.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("event channel not closed after consumer cancellation")
		}
	}
}

func manyDeltas(n int) []string {
	deltas := make([]string, n)
	for i := range deltas {
		deltas[i] = "x"
	}
	return deltas
}
