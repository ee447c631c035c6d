package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"amenitymap/pkg/logger"
)

// Context creates a context that is canceled when SIGINT or SIGTERM is
// received. Calling the returned cancel also stops signal delivery.
func Context(ctx context.Context, log *logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info("received termination signal, starting graceful shutdown", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
