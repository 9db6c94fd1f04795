package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sdlc-quest/internal/app"
	"sdlc-quest/internal/domain"
	"sdlc-quest/internal/util"
)

type WSHandler struct {
	service  *app.GameService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type gotoPayload struct {
	Scene string `json:"scene"`
}

type learnPayload struct {
	ModelID string `json:"modelId"`
}

type subjectPayload struct {
	SubjectID string `json:"subjectId"`
}

type optionPayload struct {
	OptionID string `json:"optionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errInvalidPayload = errors.New("invalid payload")
var errUnsupportedMessage = errors.New("unsupported message type")

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
// State changes reach the client through the session subscription; the read
// loop only reports failures directly.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = util.NewULID()
	}
	name := r.URL.Query().Get("name")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	joined, err := h.service.Start(ctx, playerID, name)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}})
		return
	}
	defer h.service.Leave(context.Background(), playerID)

	updates, cancel, err := h.service.Subscribe(ctx, playerID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}})
		return
	}
	defer cancel()

	log := h.log.With(zap.String("player", playerID))
	log.Info("player connected", zap.String("name", name))

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case ev, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: ev.Type, Payload: ev}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(ctx, playerID, inbound); err != nil {
			if !isClientError(err) {
				log.Error("ws message failed", zap.String("type", inbound.Type), zap.Error(err))
			}
			msg := outboundMessage[any]{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}}
			if !enqueue(send, writerDone, msg) {
				break
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
	log.Info("player disconnected")
}

// enqueue hands msg to the writer goroutine. It reports false once the
// writer has stopped, instead of blocking on a full buffer.
func enqueue(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

func (h *WSHandler) dispatch(ctx context.Context, playerID string, msg inboundMessage) error {
	var err error
	switch msg.Type {
	case "goto":
		var p gotoPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		_, err = h.service.GoTo(ctx, playerID, p.Scene)
	case "next":
		_, err = h.service.Next(ctx, playerID)
	case "back":
		_, err = h.service.Back(ctx, playerID)
	case "learn":
		var p learnPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		_, err = h.service.LearnModel(ctx, playerID, p.ModelID)
	case "subject":
		var p subjectPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		_, err = h.service.ChooseSubject(ctx, playerID, p.SubjectID)
	case "option":
		var p optionPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		_, _, err = h.service.ChooseOption(ctx, playerID, p.OptionID)
	case "retry":
		_, err = h.service.Retry(ctx, playerID)
	case "reset":
		_, err = h.service.ResetRound(ctx, playerID)
	default:
		return errUnsupportedMessage
	}
	return err
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errInvalidPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errInvalidPayload
	}
	return nil
}

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrSessionNotFound, "session_not_found"},
	{domain.ErrLevelNotFound, "level_not_found"},
	{domain.ErrUnknownSubject, "unknown_subject"},
	{domain.ErrUnknownOption, "unknown_option"},
	{domain.ErrUnknownModel, "unknown_model"},
	{domain.ErrNoActiveSubject, "no_active_subject"},
	{domain.ErrRoundResolved, "round_resolved"},
	{domain.ErrNotRetryable, "not_retryable"},
	{domain.ErrNoIncorrectOption, "no_incorrect_option"},
	{domain.ErrLevelNotCleared, "level_not_cleared"},
	{domain.ErrModelsNotLearned, "models_not_learned"},
	{domain.ErrWrongScene, "wrong_scene"},
	{errInvalidPayload, "invalid_payload"},
	{errUnsupportedMessage, "unsupported"},
}

func errorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}

func isClientError(err error) bool {
	return errorCode(err) != "internal"
}
