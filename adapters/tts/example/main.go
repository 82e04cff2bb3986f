// A small demo that exercises the synthesis adapters directly, without
// running the gateway. Select the provider with TTS_PROVIDER (openai or
// elevenlabs) and supply the matching API key.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/joho/godotenv"
	"github.com/voxlabs/voxgate/adapters/tts"
	"github.com/voxlabs/voxgate/domain/repositories"
)

func main() {
	godotenv.Load()

	// Create logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	provider := os.Getenv("TTS_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	var synthesizer repositories.TextToSpeech
	switch provider {
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			logger.Fatal("OPENAI_API_KEY environment variable is required")
		}
		synthesizer, err = tts.NewOpenAITTS(nil, tts.OpenAITTSConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("TTS_MODEL"),
			Voice:   os.Getenv("TTS_VOICE"),
		}, logger)
	case "elevenlabs":
		if os.Getenv("ELEVEN_LABS_API_KEY") == "" {
			logger.Fatal("ELEVEN_LABS_API_KEY environment variable is required")
		}
		synthesizer, err = tts.NewElevenLabsTTS(nil, tts.ElevenLabsConfig{
			APIKey:  os.Getenv("ELEVEN_LABS_API_KEY"),
			VoiceID: os.Getenv("ELEVEN_LABS_VOICE_ID"),
			ModelID: os.Getenv("ELEVEN_LABS_MODEL_ID"),
		}, logger)
	default:
		logger.Fatal("Unknown TTS provider", zap.String("provider", provider))
	}
	if err != nil {
		logger.Fatal("Failed to create TTS service", zap.Error(err))
	}

	text := "Hello! This is a demonstration of the voice gateway's text to speech integration."

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Converting text to speech",
		zap.String("provider", provider),
		zap.String("text", text))

	audio, err := synthesizer.Synthesize(ctx, text)
	if err != nil {
		logger.Fatal("Failed to convert text to speech", zap.Error(err))
	}

	outputFile := "example_output.mp3"
	if err := os.WriteFile(outputFile, audio, 0644); err != nil {
		logger.Fatal("Failed to write output file", zap.Error(err))
	}

	logger.Info("Audio conversion completed",
		zap.Int("totalBytes", len(audio)),
		zap.String("outputFile", outputFile))

	fmt.Printf("Audio successfully saved to %s (%d bytes)\n", outputFile, len(audio))
	fmt.Printf("Play it with:\n")
	fmt.Printf("  ffplay -nodisp -autoexit %s\n", outputFile)
	fmt.Printf("  mpv %s\n", outputFile)

	// Optional: list available voices (Eleven Labs only)
	if provider == "elevenlabs" && os.Getenv("SHOW_VOICES") == "true" {
		el := synthesizer.(*tts.ElevenLabsTTS)
		voices, err := el.GetAvailableVoices(ctx)
		if err != nil {
			logger.Warn("Failed to get available voices", zap.Error(err))
		} else {
			fmt.Printf("\nAvailable voices (%d):\n", len(voices))
			for i, voice := range voices {
				if i >= 10 {
					fmt.Printf("... and %d more voices\n", len(voices)-10)
					break
				}
				fmt.Printf("  - %s (ID: %s)\n", voice["name"], voice["voice_id"])
			}
		}
	}
}
