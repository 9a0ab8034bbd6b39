package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/pitch-booking/internal/config"
	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
)

// Runtime holds the started telemetry components.
type Runtime struct {
	logger        *logging.Logger
	pprof         *http.Server
	stopUptrace   func(context.Context) error
	stopPyroscope func() error
}

// Start brings up tracing, profiling and the pprof listener according to cfg.
// Components that are disabled are skipped.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	stopUptrace, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	stopPyroscope, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = stopUptrace(context.Background())
		return nil, err
	}

	return &Runtime{
		logger:        logger,
		pprof:         StartPprofServer(cfg, logger),
		stopUptrace:   stopUptrace,
		stopPyroscope: stopPyroscope,
	}, nil
}

// Shutdown stops every component and joins their errors.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	if err := StopPprofServer(ctx, r.pprof, r.logger); err != nil {
		errs = append(errs, fmt.Errorf("stop pprof: %w", err))
	}
	if r.stopPyroscope != nil {
		if err := r.stopPyroscope(); err != nil {
			errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
		}
	}
	if r.stopUptrace != nil {
		if err := r.stopUptrace(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop uptrace: %w", err))
		}
	}
	return errors.Join(errs...)
}
