package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
)

// Ensure OpenAIChat implements GenerationService
var _ driven.GenerationService = (*OpenAIChat)(nil)

// OpenAIChat implements GenerationService using OpenAI's streaming chat
// completions API
type OpenAIChat struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIChat creates a new OpenAI chat service. The client carries
// no timeout: streamed responses stay open for the duration of the
// generation and are bounded by the request context instead.
func NewOpenAIChat(apiKey, model, baseURL string) (driven.GenerationService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIChat{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{},
	}, nil
}

// chatRequest is the request body for OpenAI chat completions API
type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float32              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
	Stream      bool                 `json:"stream"`
}

// chatStreamChunk is one server-sent event payload of a streamed
// completion
type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// StreamChat opens a streaming completion for the given messages
func (c *OpenAIChat) StreamChat(ctx context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (driven.ChatStream, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	return &openAIChatStream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// Model returns the model name being used
func (c *OpenAIChat) Model() string {
	return c.model
}

// Close releases resources held by the chat service
func (c *OpenAIChat) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// openAIChatStream decodes the provider's SSE stream into text deltas
type openAIChatStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

// Recv returns the next non-terminal text delta. The upstream stream is
// a sequence of "data: <json>" lines ending with "data: [DONE]"; empty
// deltas (role-only chunks) are returned as empty strings and left to
// the caller to suppress.
func (s *openAIChatStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			s.done = true
			return "", io.EOF
		}

		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", fmt.Errorf("failed to parse stream chunk: %w", err)
		}
		if chunk.Error != nil {
			return "", fmt.Errorf("OpenAI API error: %s (type: %s)", chunk.Error.Message, chunk.Error.Type)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		return chunk.Choices[0].Delta.Content, nil
	}

	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	// Stream ended without a [DONE] marker; treat as exhaustion.
	s.done = true
	return "", io.EOF
}

// Close releases the underlying connection
func (s *openAIChatStream) Close() error {
	return s.body.Close()
}
