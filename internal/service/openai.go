package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/roohic/supervisorbot/internal/config"
	"github.com/roohic/supervisorbot/internal/domain"
)

// OpenAIService talks to the completion provider. Both request shapes are
// supported: the legacy single-prompt completions endpoint and the chat
// endpoint with a system/user message pair. Usage counts are surfaced
// when the provider reports them so the pipeline can bill actual spend.
type OpenAIService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIService(apiKey string) *OpenAIService {
	return &OpenAIService{
		apiKey:     apiKey,
		baseURL:    "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature"`
}

type usagePayload struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *usagePayload `json:"usage"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Usage *usagePayload `json:"usage"`
}

// ChatComplete sends a system/user message pair to the chat endpoint.
func (s *OpenAIService) ChatComplete(ctx context.Context, system, user, model string, maxTokens int, temperature float64) (*domain.Completion, error) {
	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	raw, err := s.post(ctx, "/chat/completions", body)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", domain.ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", domain.ErrProvider)
	}

	return &domain.Completion{
		Text:  resp.Choices[0].Message.Content,
		Usage: toUsage(resp.Usage),
	}, nil
}

// Complete sends a flattened prompt to the legacy completions endpoint.
func (s *OpenAIService) Complete(ctx context.Context, prompt, model string, maxTokens int, temperature float64) (*domain.Completion, error) {
	body := completionRequest{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	raw, err := s.post(ctx, "/completions", body)
	if err != nil {
		return nil, err
	}

	var resp completionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", domain.ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", domain.ErrProvider)
	}

	return &domain.Completion{
		Text:  resp.Choices[0].Text,
		Usage: toUsage(resp.Usage),
	}, nil
}

func (s *OpenAIService) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProvider, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

func toUsage(u *usagePayload) *domain.TokenUsage {
	if u == nil {
		return nil
	}
	return &domain.TokenUsage{
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
	}
}

// WithBaseURL points the client at a different endpoint, e.g. a test
// server or an API-compatible proxy.
func (s *OpenAIService) WithBaseURL(baseURL string) *OpenAIService {
	s.baseURL = strings.TrimSuffix(baseURL, "/")
	return s
}
