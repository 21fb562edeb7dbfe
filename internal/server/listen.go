package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/localnext/internal/shared"
	"golang.org/x/oauth2"
)

// ListenForCallback runs a temporary HTTP server on addr until the OAuth
// callback arrives or ctx is done, then shuts the server down and returns
// the exchanged token.
func ListenForCallback(ctx context.Context, addr string, config *oauth2.Config, state string, logger *log.Logger) (*oauth2.Token, error) {
	handler := NewOAuthHandler(config, state)

	router := NewBasicRouter()
	router.Use(RequestLogger(logger))
	router.Handler(handler)

	srv := &http.Server{Addr: addr, Handler: router}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("callback server shutdown", "error", err)
		}
	}()

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return nil, err
		}
		return result.Token, nil
	case err := <-errChan:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: no callback received", shared.ErrTimeout)
	}
}
