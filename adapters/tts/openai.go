package tts

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
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "tts-1"
	defaultVoice   = "alloy"
	defaultTimeout = 20 * time.Second

	outputFormat = "mp3"
	acceptHeader = "audio/mpeg"

	maxErrorBodyBytes = 2048
)

// OpenAITTSConfig holds configuration for the OpenAITTS adapter.
// Required fields:
// - APIKey: API key for OpenAI or a compatible provider
// Optional fields with defaults:
// - BaseURL: API base URL (default: "https://api.openai.com/v1")
// - Model: synthesis model to request (default: "tts-1")
// - Voice: voice preset (default: "alloy")
// - Timeout: per-request deadline (default: 20s)
type OpenAITTSConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
	Timeout time.Duration
}

// OpenAITTS implements TextToSpeech against an OpenAI-compatible speech
// endpoint. Audio always comes back as a complete MP3 payload.
type OpenAITTS struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
	voice   string
	timeout time.Duration
	logger  *zap.Logger
}

// Ensure OpenAITTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*OpenAITTS)(nil)

type speechRequest struct {
	Model  string `json:"model"`
	Voice  string `json:"voice"`
	Input  string `json:"input"`
	Format string `json:"format"`
}

// NewOpenAITTS creates a new speech-synthesis client sharing the supplied
// http.Client with other adapters.
func NewOpenAITTS(client *http.Client, config OpenAITTSConfig, logger *zap.Logger) (*OpenAITTS, error) {
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

	voice := config.Voice
	if voice == "" {
		voice = defaultVoice
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAITTS{
		client:  client,
		apiKey:  config.APIKey,
		baseURL: baseURL,
		model:   model,
		voice:   voice,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Synthesize renders text into MP3 bytes via the speech endpoint.
func (s *OpenAITTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	requestBody, err := sonic.Marshal(speechRequest{
		Model:  s.model,
		Voice:  s.voice,
		Input:  text,
		Format: outputFormat,
	})
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Text-to-speech request failed", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/speech", bytes.NewReader(requestBody))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Text-to-speech request failed", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", acceptHeader)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("TTS synthesis timed out", zap.Duration("timeout", s.timeout))
			return nil, &Error{Kind: KindTimeout, Message: "Text-to-speech service timed out", Err: err}
		}
		s.logger.Error("TTS synthesis request failed", zap.Error(err))
		return nil, &Error{Kind: KindTransport, Message: "Text-to-speech request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		s.logger.Error("TTS synthesis failed",
			zap.Int("statusCode", resp.StatusCode),
			zap.ByteString("response", errorBody))
		return nil, &Error{Kind: KindUpstream, Message: "Text-to-speech service returned an error", StatusCode: resp.StatusCode}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("TTS synthesis timed out while reading audio", zap.Duration("timeout", s.timeout))
			return nil, &Error{Kind: KindTimeout, Message: "Text-to-speech service timed out", Err: err}
		}
		s.logger.Error("Failed to read TTS response", zap.Error(err))
		return nil, &Error{Kind: KindTransport, Message: "Text-to-speech request failed", Err: err}
	}

	if len(audio) == 0 {
		return nil, &Error{Kind: KindEmpty, Message: "Text-to-speech service returned empty payload"}
	}

	s.logger.Debug("TTS synthesis succeeded",
		zap.Duration("duration", time.Since(start)),
		zap.Int("audioBytes", len(audio)))

	return audio, nil
}
