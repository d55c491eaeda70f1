// Package shutdown stops long-running servers when the process is signalled.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/atsbridge/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Graceful blocks until one of signals arrives or parent is done, then stops
// every target within timeout. Targets are stopped in order.
func Graceful(parent context.Context, signals []os.Signal, timeout time.Duration, log *logging.Logger, targets ...Stoppable) error {
	log = logging.OrNop(log)

	sigCtx, stop := signal.NotifyContext(parent, signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received", "targets", len(targets))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, s := range targets {
		if err := s.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
	} else {
		log.Info("graceful shutdown completed successfully")
	}
	return err
}
