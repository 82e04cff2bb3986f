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
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	defaultVoiceID    = "21m00Tcm4TlvDq8ikWAM" // Rachel voice
	defaultModelID    = "eleven_multilingual_v2"
	defaultStability  = 0.5
	defaultClarity    = 0.75

	// Clients receive complete MP3 payloads, so the output format is pinned
	// rather than configurable.
	elevenLabsOutputFormat = "mp3_44100_128"
)

// ElevenLabsConfig holds configuration for the ElevenLabsTTS adapter.
// Required fields:
// - APIKey: Your Eleven Labs API key
// Optional fields with defaults:
// - BaseURL: The base URL for the Eleven Labs API (default: "https://api.elevenlabs.io/v1")
// - VoiceID: The voice ID to use (default: "21m00Tcm4TlvDq8ikWAM" - Rachel voice)
// - ModelID: The model ID to use (default: "eleven_multilingual_v2")
// - Stability: Voice stability value between 0 and 1 (default: 0.5)
// - Clarity: Voice clarity/similarity boost value between 0 and 1 (default: 0.75)
// - Timeout: per-request deadline (default: 20s)
type ElevenLabsConfig struct {
	APIKey    string
	BaseURL   string
	VoiceID   string
	ModelID   string
	Stability float64
	Clarity   float64
	Timeout   time.Duration
}

// ElevenLabsTTS implements TextToSpeech using the Eleven Labs API. It is an
// alternative to OpenAITTS and returns the same complete MP3 payloads.
type ElevenLabsTTS struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	voiceID   string
	modelID   string
	stability float64
	clarity   float64
	timeout   time.Duration
	logger    *zap.Logger
}

// Ensure ElevenLabsTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*ElevenLabsTTS)(nil)

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsRequest struct {
	Text                   string                  `json:"text"`
	ModelID                string                  `json:"model_id"`
	VoiceSettings          elevenLabsVoiceSettings `json:"voice_settings"`
	ApplyTextNormalization string                  `json:"apply_text_normalization,omitempty"`
}

// NewElevenLabsTTS creates a new Eleven Labs synthesis client sharing the
// supplied http.Client with other adapters.
func NewElevenLabsTTS(client *http.Client, config ElevenLabsConfig, logger *zap.Logger) (*ElevenLabsTTS, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("eleven labs API key is required")
	}
	if config.Stability != 0 && (config.Stability < 0 || config.Stability > 1) {
		return nil, fmt.Errorf("stability must be between 0 and 1, got %f", config.Stability)
	}
	if config.Clarity != 0 && (config.Clarity < 0 || config.Clarity > 1) {
		return nil, fmt.Errorf("clarity must be between 0 and 1, got %f", config.Clarity)
	}
	if client == nil {
		client = http.DefaultClient
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}

	voiceID := config.VoiceID
	if voiceID == "" {
		voiceID = defaultVoiceID
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}

	stability := config.Stability
	if stability == 0 {
		stability = defaultStability
	}

	clarity := config.Clarity
	if clarity == 0 {
		clarity = defaultClarity
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &ElevenLabsTTS{
		client:    client,
		apiKey:    config.APIKey,
		baseURL:   baseURL,
		voiceID:   voiceID,
		modelID:   modelID,
		stability: stability,
		clarity:   clarity,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// Synthesize renders text into MP3 bytes via the Eleven Labs API.
func (e *ElevenLabsTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	requestBody, err := sonic.Marshal(elevenLabsRequest{
		Text:                   text,
		ModelID:                e.modelID,
		ApplyTextNormalization: "auto",
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       e.stability,
			SimilarityBoost: e.clarity,
		},
	})
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Text-to-speech request failed", Err: err}
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s&enable_logging=false",
		e.baseURL, e.voiceID, elevenLabsOutputFormat)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Text-to-speech request failed", Err: err}
	}
	httpReq.Header.Set("xi-api-key", e.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", acceptHeader)

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			e.logger.Warn("TTS synthesis timed out", zap.Duration("timeout", e.timeout))
			return nil, &Error{Kind: KindTimeout, Message: "Text-to-speech service timed out", Err: err}
		}
		e.logger.Error("TTS synthesis request failed", zap.Error(err))
		return nil, &Error{Kind: KindTransport, Message: "Text-to-speech request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		e.logger.Error("TTS synthesis failed",
			zap.Int("statusCode", resp.StatusCode),
			zap.ByteString("response", errorBody))
		return nil, &Error{Kind: KindUpstream, Message: "Text-to-speech service returned an error", StatusCode: resp.StatusCode}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			e.logger.Warn("TTS synthesis timed out while reading audio", zap.Duration("timeout", e.timeout))
			return nil, &Error{Kind: KindTimeout, Message: "Text-to-speech service timed out", Err: err}
		}
		e.logger.Error("Failed to read TTS response", zap.Error(err))
		return nil, &Error{Kind: KindTransport, Message: "Text-to-speech request failed", Err: err}
	}

	if len(audio) == 0 {
		return nil, &Error{Kind: KindEmpty, Message: "Text-to-speech service returned empty payload"}
	}

	e.logger.Debug("TTS synthesis succeeded",
		zap.Duration("duration", time.Since(start)),
		zap.Int("audioBytes", len(audio)))

	return audio, nil
}

// GetAvailableVoices retrieves available voices from the Eleven Labs API.
func (e *ElevenLabsTTS) GetAvailableVoices(ctx context.Context) ([]map[string]interface{}, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("API returned error %d: %s", resp.StatusCode, string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var voicesResponse struct {
		Voices []map[string]interface{} `json:"voices"`
	}
	if err := sonic.Unmarshal(body, &voicesResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	e.logger.Debug("Retrieved available voices", zap.Int("count", len(voicesResponse.Voices)))
	return voicesResponse.Voices, nil
}
