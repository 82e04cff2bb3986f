package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/voxlabs/voxgate/domain/repositories"
)

const (
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultModel        = "gpt-4o-mini"
	defaultTimeout      = 10 * time.Second
	defaultSystemPrompt = "You are a helpful assistant."

	maxErrorBodyBytes = 2048 // upstream error bodies are truncated before logging
)

// OpenAIChatConfig holds configuration for the OpenAIChat adapter.
// Required fields:
// - APIKey: API key for OpenAI or a compatible provider
// Optional fields with defaults:
// - BaseURL: API base URL (default: "https://api.openai.com/v1")
// - Model: chat model to request (default: "gpt-4o-mini")
// - SystemPrompt: system message sent with every request
// - Timeout: per-request deadline (default: 10s)
type OpenAIChatConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
}

// OpenAIChat implements LargeLanguageModel against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIChat struct {
	client       *http.Client
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
	timeout      time.Duration
	logger       *zap.Logger
}

// Ensure OpenAIChat implements the LargeLanguageModel interface
var _ repositories.LargeLanguageModel = (*OpenAIChat)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			// A pointer so a missing or null content key is not
			// mistaken for a present-but-empty reply.
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIChat creates a new chat-completion client. The http.Client is
// shared across adapters; request deadlines come from the configured
// timeout, not from the client.
func NewOpenAIChat(client *http.Client, config OpenAIChatConfig, logger *zap.Logger) (*OpenAIChat, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if client == nil {
		client = http.DefaultClient
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	systemPrompt := config.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAIChat{
		client:       client,
		apiKey:       config.APIKey,
		baseURL:      baseURL,
		model:        model,
		systemPrompt: systemPrompt,
		timeout:      timeout,
		logger:       logger,
	}, nil
}

// Complete sends the user's text to the chat-completions endpoint and
// returns the assistant's reply with surrounding whitespace trimmed.
func (c *OpenAIChat) Complete(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestBody, err := sonic.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: "Chat service request failed", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(requestBody))
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: "Chat service request failed", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("Chat completion timed out", zap.Duration("timeout", c.timeout))
			return "", &Error{Kind: KindTimeout, Message: "Chat service timed out", Err: err}
		}
		c.logger.Error("Chat completion request failed", zap.Error(err))
		return "", &Error{Kind: KindTransport, Message: "Chat service request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Error("Chat completion failed",
			zap.Int("statusCode", resp.StatusCode),
			zap.ByteString("response", errorBody))
		return "", &Error{Kind: KindUpstream, Message: "Chat service returned an error", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("Chat completion timed out while reading response", zap.Duration("timeout", c.timeout))
			return "", &Error{Kind: KindTimeout, Message: "Chat service timed out", Err: err}
		}
		c.logger.Error("Failed to read chat completion response", zap.Error(err))
		return "", &Error{Kind: KindTransport, Message: "Chat service request failed", Err: err}
	}

	var decoded chatResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		c.logger.Error("Malformed chat response", zap.Error(err))
		return "", &Error{Kind: KindMalformed, Message: "Invalid chat response payload", Err: err}
	}
	if len(decoded.Choices) == 0 {
		c.logger.Error("Malformed chat response", zap.String("reason", "no choices"))
		return "", &Error{Kind: KindMalformed, Message: "Invalid chat response payload"}
	}
	content := decoded.Choices[0].Message.Content
	if content == nil {
		c.logger.Error("Malformed chat response", zap.String("reason", "missing content"))
		return "", &Error{Kind: KindMalformed, Message: "Invalid chat response payload"}
	}

	reply := strings.TrimSpace(*content)
	if reply == "" {
		return "", &Error{Kind: KindEmpty, Message: "Chat service returned empty content"}
	}

	c.logger.Debug("Chat completion succeeded",
		zap.Duration("duration", time.Since(start)),
		zap.Int("replyLength", len(reply)))

	return reply, nil
}
