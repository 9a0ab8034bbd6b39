package usecase

import "context"

// Notifier is the user-facing notification surface of the lineup editor.
type Notifier interface {
	ShowSuccess(ctx context.Context, message string)
	ShowError(ctx context.Context, title, message string)
	ShowWarning(ctx context.Context, message string)
}

const (
	syncFailedTitle   = "Sync failed"
	syncFailedMessage = "Failed to update player team. Changes saved locally."
	nothingToUndo     = "Nothing to undo"
)

type noopNotifier struct{}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) ShowSuccess(context.Context, string)       {}
func (noopNotifier) ShowError(context.Context, string, string) {}
func (noopNotifier) ShowWarning(context.Context, string)       {}
