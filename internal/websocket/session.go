package websocket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxlabs/voxgate/usecase"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Floor for the inbound frame cap.
	minReadLimit = 64 * 1024

	// Headroom for the JSON envelope around the text field.
	frameOverhead = 1024
)

// readLimit caps inbound frames. It clears the worst-case UTF-8 encoding
// of a maximum-length text plus envelope, so oversize prompts are rejected
// in-band with an error frame rather than by tearing down the connection.
func readLimit(maxTextLength int) int64 {
	limit := 4*int64(maxTextLength) + frameOverhead
	if limit < minReadLimit {
		return minReadLimit
	}
	return limit
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades HTTP requests and runs one Session per connection.
type Handler struct {
	registry     *Registry
	conversation *usecase.ConversationService

	maxTextLength int
	idleTimeout   time.Duration

	logger *zap.Logger
}

// NewHandler creates the WebSocket entry point. The conversation service is
// shared across sessions and must be safe for concurrent use.
func NewHandler(
	registry *Registry,
	conversation *usecase.ConversationService,
	maxTextLength int,
	idleTimeout time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		registry:      registry,
		conversation:  conversation,
		maxTextLength: maxTextLength,
		idleTimeout:   idleTimeout,
		logger:        logger,
	}
}

// Handle upgrades the request and hands the connection to a new session
// goroutine. Upgrade failure is fatal to the session, never retried.
func (h *Handler) Handle(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	session := newSession(conn, h)
	go session.run()

	return nil
}

// Session owns one client connection: the receive loop with its idle
// timeout, per-message validation, the reply pipeline, and close handling.
// All frame processing is strictly sequential; the next frame is not read
// until the current one has fully succeeded or failed.
type Session struct {
	id   string
	conn *websocket.Conn

	registry     *Registry
	conversation *usecase.ConversationService

	maxTextLength int
	idleTimeout   time.Duration

	logger *zap.Logger
}

func newSession(conn *websocket.Conn, h *Handler) *Session {
	id := uuid.NewString()
	return &Session{
		id:            id,
		conn:          conn,
		registry:      h.registry,
		conversation:  h.conversation,
		maxTextLength: h.maxTextLength,
		idleTimeout:   h.idleTimeout,
		logger: h.logger.With(
			zap.String("sessionID", id),
			zap.String("remoteAddr", conn.RemoteAddr().String()),
		),
	}
}

// run drives the session until idle timeout, peer disconnect, or a failed
// write. The closing log line is emitted exactly once per session.
func (s *Session) run() {
	defer func() {
		s.registry.remove(s)
		_ = s.conn.Close()
		s.logger.Info("WebSocket connection closed")
	}()

	s.registry.add(s)
	s.conn.SetReadLimit(readLimit(s.maxTextLength))
	s.logger.Info("WebSocket connection accepted")

	for {
		// The idle window restarts with every frame; time spent inside
		// the pipeline does not count against it.
		_ = s.conn.SetReadDeadline(time.Now().Add(s.idleTimeout))

		frameType, data, err := s.conn.ReadMessage()
		if err != nil {
			var netErr net.Error
			switch {
			case errors.As(err, &netErr) && netErr.Timeout():
				s.logger.Info("WebSocket inactive; closing")
				s.closeNormal()
			case websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
				websocket.CloseAbnormalClosure):
				s.logger.Warn("WebSocket read failed", zap.Error(err))
			default:
				s.logger.Info("WebSocket client disconnected")
			}
			return
		}

		if !s.handleFrame(frameType, data) {
			return
		}
	}
}

// handleFrame runs one message through validate → respond. It reports false
// only when a write to the peer failed, which ends the session; every
// in-band failure sends an error frame and keeps the session open.
func (s *Session) handleFrame(frameType int, data []byte) bool {
	if frameType != websocket.TextMessage {
		s.logger.Debug("Rejecting non-text frame", zap.Int("frameType", frameType))
		return s.sendError(ErrorInvalidPayload, "Invalid JSON payload.")
	}

	incoming, err := ParseIncoming(data)
	if err != nil {
		s.logger.Debug("Rejecting unparseable frame", zap.Error(err))
		return s.sendError(ErrorInvalidPayload, "Invalid JSON payload.")
	}

	text := strings.TrimSpace(incoming.Text)
	if text == "" {
		return s.sendError(ErrorValidation, "Text must not be empty.")
	}
	if utf8.RuneCountInString(text) > s.maxTextLength {
		return s.sendError(ErrorValidation,
			fmt.Sprintf("Text length exceeds limit of %d characters.", s.maxTextLength))
	}

	start := time.Now()

	audio, err := s.conversation.Respond(context.Background(), text)
	if err != nil {
		var perr *usecase.PipelineError
		if errors.As(err, &perr) && perr.Stage == usecase.StageSpeech {
			return s.sendError(ErrorTTS, perr.Error())
		}
		return s.sendError(ErrorChat, err.Error())
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		s.logger.Warn("Failed to deliver audio payload", zap.Error(err))
		return false
	}

	s.logger.Info("Audio payload delivered",
		zap.Int("bytes", len(audio)),
		zap.Duration("duration", time.Since(start)))

	return true
}

// sendError emits one error frame. A write failure means the peer is gone
// and reports false so the loop exits.
func (s *Session) sendError(code ErrorCode, detail string) bool {
	payload, err := EncodeErrorFrame(code, detail)
	if err != nil {
		s.logger.Error("Failed to encode error frame", zap.Error(err))
		return true
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.logger.Warn("Failed to send error frame",
			zap.String("code", string(code)),
			zap.Error(err))
		return false
	}

	return true
}

// closeNormal performs the graceful half of the closing handshake after an
// idle timeout. Errors are suppressed: the peer may already be gone, and
// the deferred Close tears down the socket either way.
func (s *Session) closeNormal() {
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait)); err != nil {
		s.logger.Debug("Failed to send close frame", zap.Error(err))
	}
}

// shutdown is called by the registry when the process is stopping. Closing
// the connection unblocks the session's reader, which then cleans up.
func (s *Session) shutdown() {
	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	if err := s.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait)); err != nil {
		s.logger.Debug("Failed to send going-away frame", zap.Error(err))
	}
	_ = s.conn.Close()
}
