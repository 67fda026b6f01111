package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/elestrals/internal/logging"
	"github.com/mesh-intelligence/elestrals/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr            string
		shutdownTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if shutdownTimeout <= 0 {
				shutdownTimeout = a.cfg.Server.ShutdownTimeout
			}
			return a.serve(cmd.Context(), addr, shutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3000)")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "grace period for in-flight requests on shutdown")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts down within timeout.
func (a *app) serve(ctx context.Context, addr string, timeout time.Duration) error {
	log := logging.With(a.log, logging.TypeSystem)

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	httpApp := server.New(server.Config{
		DataDir:     a.dataDir,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		Logger:      a.log,
		Version:     Version,
	}, store)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- httpApp.Listener(ln)
	}()
	log.Info("server listening", slog.String("addr", ln.Addr().String()), slog.String("db", a.dbPath))

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpApp.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server shutdown error", logging.Err(err))
		return err
	}
	<-errc
	log.Info("server shutdown complete")
	return nil
}
