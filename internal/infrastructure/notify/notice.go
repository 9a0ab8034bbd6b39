package notify

import (
	"context"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notice is one user-facing notification as emitted by the lineup editor.
type Notice struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// sink adapts a single emit function to usecase.Notifier.
type sink struct {
	now  func() time.Time
	emit func(ctx context.Context, n Notice)
}

func (s sink) ShowSuccess(ctx context.Context, message string) {
	s.emit(ctx, Notice{Level: LevelSuccess, Message: message, At: s.now()})
}

func (s sink) ShowError(ctx context.Context, title, message string) {
	s.emit(ctx, Notice{Level: LevelError, Title: title, Message: message, At: s.now()})
}

func (s sink) ShowWarning(ctx context.Context, message string) {
	s.emit(ctx, Notice{Level: LevelWarning, Message: message, At: s.now()})
}
