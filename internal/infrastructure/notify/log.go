package notify

import (
	"context"
	"time"

	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
	"github.com/riskibarqy/pitch-booking/internal/usecase"
)

// NewLogNotifier writes every notice to the structured log. Errors are logged
// at warn level since the local state is already committed.
func NewLogNotifier(logger *logging.Logger) usecase.Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	return sink{
		now: time.Now,
		emit: func(ctx context.Context, n Notice) {
			switch n.Level {
			case LevelError:
				logger.WarnContext(ctx, "lineup notice", "level", n.Level, "title", n.Title, "message", n.Message)
			default:
				logger.InfoContext(ctx, "lineup notice", "level", n.Level, "message", n.Message)
			}
		},
	}
}
