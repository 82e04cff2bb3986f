package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewOpenAITTSRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAITTS(nil, OpenAITTSConfig{}, zaptest.NewLogger(t))
	if err == nil {
		t.Error("Expected error when API key is missing")
	}
}

func TestNewOpenAITTSDefaults(t *testing.T) {
	synth, err := NewOpenAITTS(nil, OpenAITTSConfig{APIKey: "test-key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create OpenAITTS: %v", err)
	}

	if synth.baseURL != defaultBaseURL {
		t.Errorf("Expected base URL '%s', got '%s'", defaultBaseURL, synth.baseURL)
	}
	if synth.model != defaultModel {
		t.Errorf("Expected model '%s', got '%s'", defaultModel, synth.model)
	}
	if synth.voice != defaultVoice {
		t.Errorf("Expected voice '%s', got '%s'", defaultVoice, synth.voice)
	}
	if synth.timeout != defaultTimeout {
		t.Errorf("Expected timeout %v, got %v", defaultTimeout, synth.timeout)
	}
}

func TestOpenAITTSSynthesize(t *testing.T) {
	audio := []byte{0xFF, 0xF3, 0x48, 0x00, 0x01, 0x02}

	var gotPath, gotAuth, gotAccept string
	var gotBody speechRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	synth, err := NewOpenAITTS(server.Client(), OpenAITTSConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "tts-1",
		Voice:   "alloy",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	got, err := synth.Synthesize(context.Background(), "Hello from the gateway.")
	require.NoError(t, err)

	if !bytes.Equal(got, audio) {
		t.Errorf("Expected audio bytes to pass through untouched, got %v", got)
	}
	assert.Equal(t, "/audio/speech", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "audio/mpeg", gotAccept)
	assert.Equal(t, speechRequest{
		Model:  "tts-1",
		Voice:  "alloy",
		Input:  "Hello from the gateway.",
		Format: "mp3",
	}, gotBody)
}

func TestOpenAITTSSynthesizeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	synth, err := NewOpenAITTS(server.Client(), OpenAITTSConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 30 * time.Millisecond,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = synth.Synthesize(context.Background(), "hello")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindTimeout, serr.Kind)
	assert.Equal(t, "Text-to-speech service timed out", serr.Message)
}

func TestOpenAITTSSynthesizeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":{"message":"voice unavailable"}}`)
	}))
	defer server.Close()

	synth, err := NewOpenAITTS(server.Client(), OpenAITTSConfig{APIKey: "test-key", BaseURL: server.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = synth.Synthesize(context.Background(), "hello")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindUpstream, serr.Kind)
	assert.Equal(t, http.StatusBadGateway, serr.StatusCode)
	assert.Equal(t, "Text-to-speech service returned an error", serr.Message)
}

func TestOpenAITTSSynthesizeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	synth, err := NewOpenAITTS(nil, OpenAITTSConfig{APIKey: "test-key", BaseURL: serverURL}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = synth.Synthesize(context.Background(), "hello")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindTransport, serr.Kind)
	assert.Equal(t, "Text-to-speech request failed", serr.Message)
}

func TestOpenAITTSSynthesizeEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	synth, err := NewOpenAITTS(server.Client(), OpenAITTSConfig{APIKey: "test-key", BaseURL: server.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = synth.Synthesize(context.Background(), "hello")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindEmpty, serr.Kind)
	assert.Equal(t, "Text-to-speech service returned empty payload", serr.Message)
}

func TestMockSpeechSynthesize(t *testing.T) {
	mock := NewMockSpeech()
	audio, err := mock.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Mock synthesis failed: %v", err)
	}
	if len(audio) == 0 {
		t.Error("Expected non-empty mock audio")
	}
}
