package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/voxlabs/voxgate/adapters/llm"
	"github.com/voxlabs/voxgate/adapters/tts"
	"github.com/voxlabs/voxgate/domain/repositories"
	"github.com/voxlabs/voxgate/internal/api"
	"github.com/voxlabs/voxgate/internal/config"
	"github.com/voxlabs/voxgate/internal/logging"
	"github.com/voxlabs/voxgate/internal/version"
	"github.com/voxlabs/voxgate/internal/websocket"
	"github.com/voxlabs/voxgate/usecase"
)

func main() {
	// Load .env if present; real environments set variables directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Both providers share one HTTP client. The client carries no Timeout of
	// its own; each adapter bounds its calls with a context deadline.
	httpClient := newHTTPClient()

	chat, err := llm.NewOpenAIChat(httpClient, llm.OpenAIChatConfig{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Model:        cfg.ChatModel,
		SystemPrompt: cfg.SystemPrompt,
		Timeout:      cfg.ChatTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize chat adapter", zap.Error(err))
	}

	synthesizer, err := newSynthesizer(httpClient, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech adapter", zap.Error(err))
	}

	// Initialize usecase services
	conversation := usecase.NewConversationService(chat, synthesizer, logger)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize WebSocket session handling
	registry := websocket.NewRegistry(logger)
	handler := websocket.NewHandler(registry, conversation, cfg.MaxTextLength, cfg.InactivityTimeout, logger)

	// Initialize API routes
	api.InitRoutes(e, handler, cfg.Environment)

	// Graceful shutdown
	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.Int("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("ttsProvider", cfg.TTSProvider),
		zap.String("version", version.Version),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	registry.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	httpClient.CloseIdleConnections()
	logger.Info("Server exited")
}

// newSynthesizer builds the TTS adapter selected by TTS_PROVIDER.
func newSynthesizer(client *http.Client, cfg config.Settings, logger *zap.Logger) (repositories.TextToSpeech, error) {
	if cfg.TTSProvider == config.ProviderElevenLabs {
		return tts.NewElevenLabsTTS(client, tts.ElevenLabsConfig{
			APIKey:  cfg.ElevenLabsAPIKey,
			VoiceID: cfg.ElevenLabsVoiceID,
			ModelID: cfg.ElevenLabsModelID,
			Timeout: cfg.TTSTimeout,
		}, logger)
	}
	return tts.NewOpenAITTS(client, tts.OpenAITTSConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.TTSModel,
		Voice:   cfg.TTSVoice,
		Timeout: cfg.TTSTimeout,
	}, logger)
}

// newHTTPClient configures transport-level timeouts while leaving the overall
// request lifetime to per-call context deadlines.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}
