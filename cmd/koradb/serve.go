package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Chidera261/koraDB/pkg/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the koraDB HTTP server",
		Long: `Start the koraDB HTTP server. Configuration can be set via flags or
environment variables named KORADB_<flag> (e.g. KORADB_CONCURRENCY_LIMIT=20).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v)
		},
	}
	cmd.Flags().String("addr", ":8080", "address the HTTP API listens on")
	cmd.Flags().String("snapshot", "", "snapshot file restored on start (if present) and written on shutdown")
	cmd.Flags().Duration("shutdown-timeout", 30*time.Second, "deadline for in-flight requests on shutdown")
	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	logger := newLogger(v.GetString("log-level"))
	slog.SetDefault(logger)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(v, logger)
	if err != nil {
		return err
	}

	snapshot := v.GetString("snapshot")
	if snapshot != "" {
		if _, err := os.Stat(snapshot); err == nil {
			if err := db.LoadSnapshot(snapshot); err != nil {
				logger.Error("Could not restore snapshot", "file", snapshot, "err", err)
			}
		} else {
			logger.Info("No snapshot to restore", "file", snapshot)
		}
	}

	srv := server.NewServer(db, logger)
	httpServer := &http.Server{
		Addr:              v.GetString("addr"),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting koraDB server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), v.GetDuration("shutdown-timeout"))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
	}

	var errs []error
	if err := srv.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if snapshot != "" {
		if err := db.SaveSnapshot(snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Info("Server stopped")
	return errors.Join(errs...)
}
