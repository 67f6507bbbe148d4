package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/storefront/internal/api"
)

func serveCmd(r *runner) *cobra.Command {
	var flags ServeFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront bridge on loopback",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			return RunServe(ctx, app, flags)
		}),
	}
	cmd.Flags().IntVar(&flags.Port, "port", 0, "Port to listen on (default from config)")
	return cmd
}

// RunServe runs the API server until ctx is done or a shutdown signal
// arrives.
func RunServe(ctx context.Context, app *App, flags ServeFlags) error {
	logger := app.Logger.With("system", "api")

	apiCfg := api.DefaultConfig()
	apiCfg.Port = app.Config.API.Port
	apiCfg.AllowedOrigins = app.Config.API.AllowedOrigins
	if flags.Port != 0 {
		apiCfg.Port = flags.Port
	}

	server := api.NewServer(apiCfg, app.Carts, app.History, logger)

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		select {
		case <-quit:
			logger.Info("received shutdown signal")
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
