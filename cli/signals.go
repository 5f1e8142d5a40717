package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

const forcedExitCode = 130

// exit is replaced in tests.
var exit = os.Exit

// withShutdown returns a context cancelled by the first SIGINT or SIGTERM.
// A second signal exits the process immediately.
func withShutdown(parent context.Context, logger *logrus.Logger) (context.Context, func()) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return watchSignals(parent, sigs, logger, func() { signal.Stop(sigs) })
}

func watchSignals(parent context.Context, sigs <-chan os.Signal, logger *logrus.Logger, release func()) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigs:
			logger.WithField("signal", sig.String()).Info("Shutdown signal received, finishing current message")
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigs:
			logger.Warn("Second signal received, exiting now")
			exit(forcedExitCode)
		case <-done:
		}
	}()

	return ctx, func() {
		close(done)
		release()
		cancel()
	}
}
