package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient user-facing message.
type Notification struct {
	ID        uuid.UUID
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Sink renders notifications; the binding layer owns the actual presentation.
type Sink interface {
	Render(n Notification)
	Remove(id uuid.UUID)
}

// Params groups dependencies for the notifier.
type Params struct {
	Sink         Sink
	DismissAfter time.Duration
	Logger       *logger.Logger
}

// Notifier shows transient messages and removes them after a fixed delay or
// on explicit dismissal.
type Notifier struct {
	mu      sync.Mutex
	sink    Sink
	dismiss time.Duration
	logg    *logger.Logger
	timers  map[uuid.UUID]*time.Timer
	closed  bool
}

// NewNotifier builds a notifier with the required dependencies.
func NewNotifier(params Params) (*Notifier, error) {
	if params.Sink == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sink is required")
	}
	if params.DismissAfter <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dismiss delay must be positive")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Notifier{
		sink:    params.Sink,
		dismiss: params.DismissAfter,
		logg:    params.Logger,
		timers:  map[uuid.UUID]*time.Timer{},
	}, nil
}

// Success shows a success-level message.
func (n *Notifier) Success(message string) uuid.UUID {
	return n.show(LevelSuccess, message)
}

// Error shows an error-level message.
func (n *Notifier) Error(message string) uuid.UUID {
	return n.show(LevelError, message)
}

func (n *Notifier) show(level Level, message string) uuid.UUID {
	notification := Notification{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return notification.ID
	}
	n.timers[notification.ID] = time.AfterFunc(n.dismiss, func() {
		n.Dismiss(notification.ID)
	})
	n.mu.Unlock()

	n.sink.Render(notification)
	n.logg.Debug(n.logg.WithField(context.Background(), "level", string(level)), "notification shown")
	return notification.ID
}

// Dismiss removes a notification before its timer fires, mirroring the close
// button of the rendered message.
func (n *Notifier) Dismiss(id uuid.UUID) {
	n.mu.Lock()
	timer, ok := n.timers[id]
	if ok {
		timer.Stop()
		delete(n.timers, id)
	}
	n.mu.Unlock()

	if ok {
		n.sink.Remove(id)
	}
}

// Close stops all pending dismissal timers.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
	return nil
}
