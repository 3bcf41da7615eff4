package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hdc/config"
)

// Run serves conversion requests until the context ends, then drains
// in-flight requests before returning.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	h := NewHandler(cfg, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      h.Mux(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("address", cfg.Server.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info("Server shutting down")
	err := srv.Shutdown(shutdownCtx)
	if lerr := <-errCh; lerr != nil && !errors.Is(lerr, http.ErrServerClosed) {
		err = multierr.Append(err, lerr)
	}
	return err
}
