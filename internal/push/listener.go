package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jwtly10/go-nextstep/internal/preferences"
	"github.com/jwtly10/go-nextstep/internal/proto"
	"golang.org/x/net/websocket"
)

type EventHandler func(event Event)

// UpdateHandler runs the work triggered by a silent push, e.g. a config reload
type UpdateHandler func(ctx context.Context) error

type Listener struct {
	wsConfig *websocket.Config
	storage  *preferences.UserStorage
	onUpdate UpdateHandler
	events   EventHandler

	mu   sync.Mutex
	conn *websocket.Conn

	logger *slog.Logger
	now    func() time.Time
}

func NewListener(wsConfig *websocket.Config, storage *preferences.UserStorage, onUpdate UpdateHandler, events EventHandler, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Listener{
		wsConfig: wsConfig,
		storage:  storage,
		onUpdate: onUpdate,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// Run connects to the push server and handles messages until the context is
// cancelled or the connection is lost. A lost connection emits an error
// event and is returned as an error.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Info("connecting to push server", "url", l.wsConfig.Location.String())

	ws, err := l.wsConfig.DialContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to push server: %w", err)
	}

	l.mu.Lock()
	l.conn = ws
	l.mu.Unlock()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-done:
		}
	}()

	defer l.Close()

	for {
		var msg proto.Message
		if err := websocket.JSON.Receive(ws, &msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			l.emit(Event{
				Type: EventTypeError,
				Payload: ErrorEvent{
					Error:            "lost connection to push server: " + err.Error(),
					Timestamp:        l.now(),
					ConnectionFailed: true,
				},
			})
			l.logger.Error("failed to receive websocket message", "error", err)
			return fmt.Errorf("lost connection to push server: %w", err)
		}

		if err := l.handle(ctx, ws, msg); err != nil {
			return err
		}
	}
}

func (l *Listener) handle(ctx context.Context, ws *websocket.Conn, msg proto.Message) error {
	switch msg.Type {
	case proto.MessageTypePing:
		l.logger.Debug("received ping message")
		if err := websocket.JSON.Send(ws, proto.Message{Type: proto.MessageTypePong}); err != nil {
			l.logger.Error("failed to send websocket message", "error", err)
			return fmt.Errorf("failed to send pong: %w", err)
		}

	case proto.MessageTypeSilent:
		l.logger.Info("received silent push")
		l.handleSilent(ctx)

	case proto.MessageTypeAlert:
		var alert proto.AlertPayload
		if err := decodePayload(msg.Payload, &alert); err != nil {
			l.logger.Error("failed to decode alert", "error", err)
			return nil
		}
		l.handleAlert(alert)

	case proto.MessageTypeError:
		var errMsg proto.ErrorPayload
		if err := decodePayload(msg.Payload, &errMsg); err != nil {
			l.logger.Error("failed to decode error message", "error", err)
			return nil
		}
		l.logger.Error("received error message", "error", errMsg.Error)
		l.emit(Event{
			Type:    EventTypeError,
			Payload: ErrorEvent{Error: errMsg.Error, Timestamp: l.now()},
		})

	default:
		l.logger.Warn("ignoring unknown push message", "type", msg.Type)
	}

	return nil
}

func (l *Listener) handleSilent(ctx context.Context) {
	start := l.now()
	if err := l.storage.SetLastPushed(start); err != nil {
		l.logger.Error("failed to record push", "error", err)
	}

	ev := SyncEvent{Timestamp: start}
	if l.onUpdate != nil {
		if err := l.onUpdate(ctx); err != nil {
			l.logger.Error("update after silent push failed", "error", err)
			ev.Error = err.Error()
		}
	}
	ev.Duration = l.now().Sub(start)

	l.emit(Event{Type: EventTypeSync, Payload: ev})
}

func (l *Listener) handleAlert(alert proto.AlertPayload) {
	now := l.now()
	if err := l.storage.SetLastPushed(now); err != nil {
		l.logger.Error("failed to record push", "error", err)
	}

	if alert.MessageID != uuid.Nil {
		seen, err := l.storage.HasSeenMessageUUID(alert.MessageID)
		if err != nil {
			l.logger.Error("failed to read seen messages", "error", err)
		}
		if seen {
			l.logger.Debug("skipping already seen alert", "message_id", alert.MessageID)
			return
		}
		if err := l.storage.RegisterSeenMessageUUID(alert.MessageID); err != nil {
			l.logger.Error("failed to register seen message", "error", err)
		}
	}

	l.emit(Event{
		Type: EventTypeAlert,
		Payload: AlertEvent{
			MessageID: alert.MessageID,
			Title:     alert.Title,
			Body:      alert.Body,
			Timestamp: now,
		},
	})
}

func (l *Listener) emit(ev Event) {
	if l.events != nil {
		l.events(ev)
	}
}

// Close closes the connection, if any
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	return err
}

// decodePayload converts a generically decoded payload into out
func decodePayload(payload interface{}, out interface{}) error {
	if payload == nil {
		return errors.New("message has no payload")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal payload: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return nil
}
