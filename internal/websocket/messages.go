package websocket

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrorCode identifies the failure class carried by an ErrorFrame.
type ErrorCode string

// Error codes sent to clients
const (
	ErrorInvalidPayload ErrorCode = "invalid_payload"
	ErrorValidation     ErrorCode = "validation_error"
	ErrorChat           ErrorCode = "chat_error"
	ErrorTTS            ErrorCode = "tts_error"
)

// IncomingMessage is the payload of one client text frame.
type IncomingMessage struct {
	Text string `json:"text"`
}

// ErrorFrame is sent to the client as one text frame whenever a message
// fails. The session stays open afterwards.
type ErrorFrame struct {
	Error  ErrorCode `json:"error"`
	Detail string    `json:"detail"`
}

// ParseIncoming decodes a client frame. The text field must be present
// and hold a string; any other shape is rejected so the caller can reply
// with an invalid_payload frame.
func ParseIncoming(data []byte) (IncomingMessage, error) {
	var raw struct {
		Text *string `json:"text"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return IncomingMessage{}, fmt.Errorf("invalid JSON format: %w", err)
	}
	if raw.Text == nil {
		return IncomingMessage{}, fmt.Errorf("text field is required")
	}
	return IncomingMessage{Text: *raw.Text}, nil
}

// EncodeErrorFrame renders an ErrorFrame for the wire.
func EncodeErrorFrame(code ErrorCode, detail string) ([]byte, error) {
	return sonic.Marshal(ErrorFrame{Error: code, Detail: detail})
}
