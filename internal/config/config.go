package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported TTS_PROVIDER values.
const (
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"
)

const (
	defaultChatModel     = "gpt-4o-mini"
	defaultTTSModel      = "tts-1"
	defaultTTSVoice      = "alloy"
	defaultEnvironment   = "development"
	defaultLogLevel      = "info"
	defaultPort          = 8000
	defaultMaxTextLength = 1000

	defaultInactivityTimeout = 30 * time.Second
	defaultChatTimeout       = 10 * time.Second
	defaultTTSTimeout        = 20 * time.Second
)

// Settings holds all application configuration, sourced from the process
// environment. Load is called once at startup; malformed values fail fast
// instead of silently falling back to defaults.
type Settings struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     string
	TTSModel      string
	TTSVoice      string
	SystemPrompt  string

	// TTSProvider selects the synthesis backend. Chat always goes through
	// the OpenAI-compatible endpoint.
	TTSProvider       string
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	ElevenLabsModelID string

	Environment string
	LogLevel    string
	LogFile     string
	Port        int

	MaxTextLength     int
	InactivityTimeout time.Duration
	ChatTimeout       time.Duration
	TTSTimeout        time.Duration
}

// Load reads settings from environment variables.
func Load() (Settings, error) {
	settings := Settings{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ChatModel:     getEnv("CHAT_MODEL", defaultChatModel),
		TTSModel:      getEnv("TTS_MODEL", defaultTTSModel),
		TTSVoice:      getEnv("TTS_VOICE", defaultTTSVoice),
		SystemPrompt:  os.Getenv("SYSTEM_PROMPT"),

		TTSProvider:       getEnv("TTS_PROVIDER", ProviderOpenAI),
		ElevenLabsAPIKey:  os.Getenv("ELEVEN_LABS_API_KEY"),
		ElevenLabsVoiceID: os.Getenv("ELEVEN_LABS_VOICE_ID"),
		ElevenLabsModelID: os.Getenv("ELEVEN_LABS_MODEL_ID"),

		Environment: getEnv("ENVIRONMENT", defaultEnvironment),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		LogFile:     os.Getenv("LOG_FILE"),
	}

	if settings.OpenAIAPIKey == "" {
		return Settings{}, fmt.Errorf("OPENAI_API_KEY is required")
	}

	switch settings.TTSProvider {
	case ProviderOpenAI:
	case ProviderElevenLabs:
		if settings.ElevenLabsAPIKey == "" {
			return Settings{}, fmt.Errorf("ELEVEN_LABS_API_KEY is required when TTS_PROVIDER is %q", ProviderElevenLabs)
		}
	default:
		return Settings{}, fmt.Errorf("TTS_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderElevenLabs, settings.TTSProvider)
	}

	var err error
	if settings.Port, err = intEnv("PORT", defaultPort); err != nil {
		return Settings{}, err
	}
	if settings.MaxTextLength, err = intEnv("MAX_TEXT_LENGTH", defaultMaxTextLength); err != nil {
		return Settings{}, err
	}
	if settings.MaxTextLength <= 0 {
		return Settings{}, fmt.Errorf("MAX_TEXT_LENGTH must be positive, got %d", settings.MaxTextLength)
	}

	if settings.InactivityTimeout, err = secondsEnv("WS_INACTIVITY_TIMEOUT", defaultInactivityTimeout); err != nil {
		return Settings{}, err
	}
	if settings.ChatTimeout, err = secondsEnv("CHAT_TIMEOUT", defaultChatTimeout); err != nil {
		return Settings{}, err
	}
	if settings.TTSTimeout, err = secondsEnv("TTS_TIMEOUT", defaultTTSTimeout); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}

// secondsEnv parses a duration expressed as seconds, accepting fractional
// values like "0.5".
func secondsEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number of seconds, got %q", key, value)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, value)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
