package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"
)

// HTTPServerWorker serves the API until its context is cancelled,
// then drains in-flight requests for at most shutdownTimeout.
type HTTPServerWorker struct {
	log             *slog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewHTTPServerWorker(log *slog.Logger, server *http.Server, shutdownTimeout time.Duration) *HTTPServerWorker {
	return &HTTPServerWorker{log: log, server: server, shutdownTimeout: shutdownTimeout}
}

func (w *HTTPServerWorker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		w.log.Info("HTTP server listening", "addr", w.server.Addr)
		errCh <- w.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
	defer cancel()
	w.log.Info("Shutting down HTTP server")
	if err := w.server.Shutdown(shutdownCtx); err != nil {
		w.log.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	return nil
}
