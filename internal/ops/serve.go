package ops

import (
	"context"
	"errors"
	"net/http"
	"time"

	"godeviate/internal"
)

// Serve runs handler on addr until ctx is done, then shuts the server down
// within timeout. A clean shutdown returns nil.
func Serve(ctx context.Context, name, addr string, handler http.Handler, timeout time.Duration, logger *internal.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("%s listening on %s", name, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logger.Info("%s shutting down", name)
		return srv.Shutdown(shutdownCtx)
	}
}
