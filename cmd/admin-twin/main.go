// admin-twin serves an in-memory fake of the upstream admin API for local development.
// Point PROD_API_BASE or STAGE_API_BASE at http://localhost:<port><base-path>.
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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/unifiedui/admin-console/internal/pkg/logging"
	"github.com/unifiedui/admin-console/internal/twin"
)

type twinFlags struct {
	port          int
	seedFile      string
	adminEmail    string
	adminPassword string
	basePath      string
	tokenTTL      time.Duration
	logLevel      string
	logFormat     string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal().Err(err).Msg("admin twin failed")
	}
}

func newRootCommand() *cobra.Command {
	flags := &twinFlags{}
	cmd := &cobra.Command{
		Use:          "admin-twin",
		Short:        "Serve a fake admin API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), flags)
		},
	}
	cmd.Flags().IntVar(&flags.port, "port", 12180, "listen port")
	cmd.Flags().StringVar(&flags.seedFile, "seed", "", "JSON seed file with initial users")
	cmd.Flags().StringVar(&flags.adminEmail, "admin-email", envOr("ADMIN_EMAIL", "admin@example.com"), "accepted admin email")
	cmd.Flags().StringVar(&flags.adminPassword, "admin-password", envOr("ADMIN_PASSWORD", "admin"), "accepted admin password")
	cmd.Flags().StringVar(&flags.basePath, "base-path", "/api", "prefix of every admin API route")
	cmd.Flags().DurationVar(&flags.tokenTTL, "token-ttl", 24*time.Hour, "lifetime of issued admin tokens")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log level")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", logging.FormatConsole, "log format (json|console)")
	return cmd
}

func serve(ctx context.Context, flags *twinFlags) error {
	logger := logging.Setup(logging.Config{Level: flags.logLevel, Format: flags.logFormat})

	srv, err := twin.NewServer(&twin.Config{
		AdminEmail:    flags.adminEmail,
		AdminPassword: flags.adminPassword,
		BasePath:      flags.basePath,
		TokenTTL:      flags.tokenTTL,
		Logger:        &logger,
	})
	if err != nil {
		return err
	}

	if flags.seedFile != "" {
		data, err := os.ReadFile(flags.seedFile)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		if err := srv.Store.LoadState(data); err != nil {
			return fmt.Errorf("failed to load seed data: %w", err)
		}
		logger.Info().Str("file", flags.seedFile).Int("users", len(srv.Store.Snapshot())).Msg("loaded seed data")
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", flags.port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", flags.port).Str("base_path", flags.basePath).Msg("admin twin ready")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
