package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixelmint/pixelmint/client"
	"github.com/pixelmint/pixelmint/common"
	"github.com/pixelmint/pixelmint/internal/config"
	"github.com/pixelmint/pixelmint/internal/logging"
	"github.com/pixelmint/pixelmint/providers/imagen"
	"github.com/pixelmint/pixelmint/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pixelmint:", err)
		os.Exit(1)
	}
}

func run() error {
	// Load fails fast when GEMINI_API_KEY is absent.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewDefaultLogger()
	logger.SetLevel(common.ParseLogLevel(cfg.Log.Level))

	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	options := []client.ClientOption{
		client.WithLogger(logger),
		client.WithDefaultProvider(cfg.Image.Provider),
	}
	if cfg.Image.RefinePrompts {
		refiner, err := client.NewDefaultRefiner(ctx)
		if err != nil {
			return fmt.Errorf("initialize prompt refiner: %w", err)
		}
		if refiner != nil {
			options = append(options, client.WithPromptRefiner(refiner))
			logger.Info("Prompt refinement enabled")
		}
	}

	c, err := client.NewClient(ctx, options...)
	if err != nil {
		return err
	}
	defer c.Close()

	// The primary provider is registered eagerly so a bad setup surfaces at
	// startup; secondary providers initialize lazily when addressed.
	imagenProvider, err := imagen.NewImagenProvider(ctx)
	if err != nil {
		return fmt.Errorf("initialize imagen provider: %w", err)
	}
	c.RegisterProvider("imagen", imagenProvider)

	srv, err := server.New(c, cfg.Image.DefaultModel(), logger)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	logger.Infof("pixelmint listening on %s", cfg.Server.Addr())

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
