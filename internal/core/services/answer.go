package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
	"github.com/portico-labs/portico/internal/core/ports/driving"
)

// Ensure answerService implements AnswerService
var _ driving.AnswerService = (*answerService)(nil)

// eventBuffer bounds the answer channel so a slow consumer applies
// backpressure to the provider stream instead of buffering unboundedly.
const eventBuffer = 16

// AnswerConfig tunes answer generation
type AnswerConfig struct {
	// Persona is the name the assistant speaks as
	Persona string

	// TopK is the retrieval result ceiling (default 6)
	TopK int

	// Temperature for the generation request (default 0.4)
	Temperature float32

	// MaxTokens for the generation request (default 600)
	MaxTokens int
}

// answerService implements the AnswerService interface
type answerService struct {
	retriever  *Retriever
	generation driven.GenerationService
	cfg        AnswerConfig
	logger     *slog.Logger
}

// NewAnswerService creates a new AnswerService
func NewAnswerService(
	retriever *Retriever,
	generation driven.GenerationService,
	cfg AnswerConfig,
	logger *slog.Logger,
) driving.AnswerService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.4
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 600
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &answerService{
		retriever:  retriever,
		generation: generation,
		cfg:        cfg,
		logger:     logger,
	}
}

// Retrieve returns the ranked snippets for a query without generating
func (s *answerService) Retrieve(ctx context.Context, query string, topK int) ([]domain.Snippet, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.retriever.Retrieve(ctx, query, topK)
}

// Ask retrieves context for the question and streams the answer.
//
// Retrieval is fully awaited before generation begins. Any failure up
// to and including opening the generation stream is returned directly;
// once the channel exists the only terminal outcomes are a done event
// or an early close (consumer cancellation or provider drop).
func (s *answerService) Ask(ctx context.Context, question string) (<-chan domain.AnswerEvent, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrInvalidInput
	}

	snippets, err := s.retriever.Retrieve(ctx, question, s.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	contexts := make([]string, len(snippets))
	for i, sn := range snippets {
		contexts[i] = sn.Text
	}
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: domain.SystemPrompt(s.cfg.Persona)},
		{Role: domain.RoleUser, Content: domain.BuildUserPrompt(question, contexts, s.cfg.Persona)},
	}

	stream, err := s.generation.StreamChat(ctx, messages, driven.ChatOptions{
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("open generation stream: %w", err)
	}

	events := make(chan domain.AnswerEvent, eventBuffer)
	go s.pump(ctx, stream, snippets, events)
	return events, nil
}

// pump drains the provider stream into the event channel: one context
// event, a token event per non-empty delta, then a done event with the
// concatenated answer. A provider error mid-stream closes the channel
// without a done event; the consumer sees an abruptly terminated
// stream, never a synthetic error event.
func (s *answerService) pump(ctx context.Context, stream driven.ChatStream, snippets []domain.Snippet, events chan<- domain.AnswerEvent) {
	defer close(events)
	defer func() {
		if err := stream.Close(); err != nil {
			s.logger.Warn("closing generation stream", "error", err)
		}
	}()

	if !s.send(ctx, events, domain.AnswerEvent{Type: domain.EventContext, Snippets: snippets}) {
		return
	}

	var full strings.Builder
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error("generation stream failed", "error", err)
			}
			return
		}
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if !s.send(ctx, events, domain.AnswerEvent{Type: domain.EventToken, Token: delta}) {
			return
		}
	}

	s.send(ctx, events, domain.AnswerEvent{Type: domain.EventDone, Text: full.String()})
}

// send delivers an event unless the consumer has gone away
func (s *answerService) send(ctx context.Context, events chan<- domain.AnswerEvent, ev domain.AnswerEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
