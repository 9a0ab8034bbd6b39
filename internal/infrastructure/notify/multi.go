package notify

import (
	"context"

	"github.com/riskibarqy/pitch-booking/internal/usecase"
)

type multi []usecase.Notifier

// Multi fans every notice out to all non-nil notifiers in order.
func Multi(notifiers ...usecase.Notifier) usecase.Notifier {
	out := make(multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multi) ShowSuccess(ctx context.Context, message string) {
	for _, n := range m {
		n.ShowSuccess(ctx, message)
	}
}

func (m multi) ShowError(ctx context.Context, title, message string) {
	for _, n := range m {
		n.ShowError(ctx, title, message)
	}
}

func (m multi) ShowWarning(ctx context.Context, message string) {
	for _, n := range m {
		n.ShowWarning(ctx, message)
	}
}
