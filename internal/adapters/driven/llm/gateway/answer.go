// Package gateway provides an answer generation adapter for
// OpenAI-compatible chat completion APIs.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/time/rate"

	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
	"github.com/pagelens/kb-cli/internal/logger"
)

// Ensure AnswerService implements the interfaces.
var (
	_ driven.AnswerService    = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL           = "https://api.openai.com/v1"
	DefaultModel             = "gpt-4o-mini"
	DefaultTimeout           = 120 * time.Second
	DefaultRequestsPerMinute = 20

	// answerTemperature keeps grounded answers close to the sources.
	answerTemperature = 0.2
)

// Config holds configuration for the answer gateway.
type Config struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure or any OpenAI-compatible router.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerMinute caps outbound request rate (default: 20).
	RequestsPerMinute int
}

// AnswerService generates grounded answers via an OpenAI-compatible API.
type AnswerService struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	limiter     *rate.Limiter
	promptStore driven.PromptStore
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// answerSchema validates the model's JSON reply before we trust it.
const answerSchema = `{
	"type": "object",
	"required": ["answer", "coverage"],
	"properties": {
		"answer": {"type": "string", "minLength": 1},
		"coverage": {"enum": ["fully_supported", "partially_supported", "not_found"]}
	}
}`

// jsonObjectPattern extracts the first JSON object from a reply that
// wraps it in prose or code fences.
var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// NewAnswerService creates a new gateway answer service.
func NewAnswerService(cfg Config) (*AnswerService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gateway: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &AnswerService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}, nil
}

// GenerateAnswer produces an answer grounded in the supplied chunks.
func (s *AnswerService) GenerateAnswer(
	ctx context.Context,
	question string,
	chunks []domain.RetrievedChunk,
) (*driven.ParsedAnswer, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gateway: rate limit wait: %w", err)
	}

	systemPrompt := s.loadPrompt(driven.PromptAnswerSystem, defaultAnswerPrompt)
	userPrompt := buildUserPrompt(question, chunks)

	content, err := s.chatCompletion(ctx, []chatCompletionMsg{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return nil, err
	}

	return parseAnswer(content), nil
}

// buildUserPrompt assembles the evidence block and the question.
func buildUserPrompt(question string, chunks []domain.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = fmt.Sprintf("[Source %d: %s]\n%s", i+1, chunk.DocumentName, chunk.Chunk.Content)
	}

	return fmt.Sprintf("KNOWLEDGE BASE CONTENT:\n%s\n\nQUESTION: %s\n\nRespond with JSON only.",
		strings.Join(parts, "\n\n---\n\n"), question)
}

// parseAnswer decodes the model reply. A schema-valid JSON object yields
// typed answer and coverage; anything else degrades to the raw text with
// partially_supported coverage rather than failing the query.
func parseAnswer(content string) *driven.ParsedAnswer {
	candidate := jsonObjectPattern.FindString(content)
	if candidate != "" {
		result, err := gojsonschema.Validate(
			gojsonschema.NewStringLoader(answerSchema),
			gojsonschema.NewStringLoader(candidate),
		)
		if err == nil && result.Valid() {
			var parsed struct {
				Answer   string `json:"answer"`
				Coverage string `json:"coverage"`
			}
			if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
				return &driven.ParsedAnswer{
					Answer:   parsed.Answer,
					Coverage: domain.Coverage(parsed.Coverage),
				}
			}
		}
	}

	logger.Debug("Gateway reply was not schema-valid JSON, using raw content")
	return &driven.ParsedAnswer{
		Answer:   strings.TrimSpace(content),
		Coverage: domain.CoveragePartiallySupported,
	}
}

// chatCompletion sends a chat request and returns the first choice.
func (s *AnswerService) chatCompletion(ctx context.Context, messages []chatCompletionMsg) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: answerTemperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("gateway error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("gateway: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// defaultAnswerPrompt is the fallback prompt when no PromptStore is configured.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultAnswerPrompt = `You are a helpful assistant that answers questions ONLY using the provided Knowledge Base content.

RULES:
1. Answer ONLY from the provided sources - never use external knowledge
2. If the sources don't contain enough information, say so explicitly
3. Be concise and factual
4. After your answer, include a "Sources:" section citing which documents you used
5. Never invent or hallucinate information

Determine coverage level:
- "fully_supported": Answer is completely backed by sources
- "partially_supported": Some parts are in sources, but not everything
- "not_found": Sources don't contain relevant information

Format your response as JSON:
{
  "answer": "Your answer here with cited sources",
  "coverage": "fully_supported" | "partially_supported" | "not_found"
}`

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *AnswerService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// ModelName returns the name of the chat model being used.
func (s *AnswerService) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *AnswerService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("gateway: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("gateway: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("gateway: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *AnswerService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
