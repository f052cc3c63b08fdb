package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
)

// MockGenerationService is a mock implementation of GenerationService
// for testing. It replays a configured sequence of deltas.
type MockGenerationService struct {
	mu       sync.Mutex
	deltas   []string
	openErr  error
	model    string
	lastMsgs []domain.ChatMessage
	lastOpts driven.ChatOptions
}

// NewMockGenerationService creates a new MockGenerationService
func NewMockGenerationService(deltas ...string) *MockGenerationService {
	return &MockGenerationService{
		deltas: deltas,
		model:  "mock-generation-model",
	}
}

func (m *MockGenerationService) StreamChat(ctx context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (driven.ChatStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastMsgs = messages
	m.lastOpts = opts
	if m.openErr != nil {
		return nil, m.openErr
	}

	deltas := make([]string, len(m.deltas))
	copy(deltas, m.deltas)
	return &mockChatStream{ctx: ctx, deltas: deltas}, nil
}

func (m *MockGenerationService) Model() string {
	return m.model
}

func (m *MockGenerationService) Close() error {
	return nil
}

// Helper methods for testing

// SetOpenError makes the next StreamChat call fail before streaming
func (m *MockGenerationService) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// LastMessages returns the messages of the most recent StreamChat call
func (m *MockGenerationService) LastMessages() []domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMsgs
}

// LastOptions returns the options of the most recent StreamChat call
func (m *MockGenerationService) LastOptions() driven.ChatOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOpts
}

type mockChatStream struct {
	ctx    context.Context
	deltas []string
	pos    int
	closed bool
}

func (s *mockChatStream) Recv() (string, error) {
	if err := s.ctx.Err(); err != nil {
		return "", err
	}
	if s.closed {
		return "", io.EOF
	}
	if s.pos >= len(s.deltas) {
		return "", io.EOF
	}
	d := s.deltas[s.pos]
	s.pos++
	return d, nil
}

func (s *mockChatStream) Close() error {
	s.closed = true
	return nil
}
