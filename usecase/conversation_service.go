package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/voxlabs/voxgate/domain/repositories"
)

// Stage identifies the pipeline step an error came from.
type Stage string

const (
	StageChat   Stage = "chat"
	StageSpeech Stage = "speech"
)

// PipelineError records which stage of the reply pipeline failed. The
// underlying adapter error carries the user-safe message.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string { return e.Err.Error() }

func (e *PipelineError) Unwrap() error { return e.Err }

// ConversationService orchestrates the conversation flow
type ConversationService struct {
	languageModel repositories.LargeLanguageModel
	textToSpeech  repositories.TextToSpeech
	logger        *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	languageModel repositories.LargeLanguageModel,
	textToSpeech repositories.TextToSpeech,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		languageModel: languageModel,
		textToSpeech:  textToSpeech,
		logger:        logger,
	}
}

// Respond produces a spoken reply to the user's text.
func (s *ConversationService) Respond(ctx context.Context, text string) ([]byte, error) {
	start := time.Now()

	// Step 1: Generate the reply text
	reply, err := s.languageModel.Complete(ctx, text)
	if err != nil {
		return nil, &PipelineError{Stage: StageChat, Err: err}
	}

	s.logger.Debug("Chat reply generated", zap.Int("replyLength", len(reply)))

	// Step 2: Render the reply as speech
	audio, err := s.textToSpeech.Synthesize(ctx, reply)
	if err != nil {
		return nil, &PipelineError{Stage: StageSpeech, Err: err}
	}

	s.logger.Debug("Reply synthesized",
		zap.Int("audioBytes", len(audio)),
		zap.Duration("duration", time.Since(start)))

	return audio, nil
}
