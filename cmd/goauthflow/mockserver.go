package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MrEthical07/goAuthFlow/internal/mockapi"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type mockServerConfig struct {
	addr     string
	linkBase string
	seeds    []string
}

const shutdownTimeout = 5 * time.Second

func newMockServerCmd(a *app) *cobra.Command {
	cfg := &mockServerConfig{}

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve an in-memory auth backend for local testing",
		Long: `Serve the six auth endpoints from memory. Verification codes and reset
links are written to the log instead of being mailed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runMockServer(ctx, a, cfg, cmd)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&cfg.linkBase, "reset-link-base", "http://localhost:8080/reset-password.html", "page the logged reset links point to")
	cmd.Flags().StringSliceVar(&cfg.seeds, "seed", nil, "verified account to create, as email:password (repeatable)")
	return cmd
}

func runMockServer(ctx context.Context, a *app, cfg *mockServerConfig, cmd *cobra.Command) error {
	logger := a.logger
	if logger.GetLevel() > zerolog.InfoLevel {
		// codes and reset links are only reported at info
		logger = logger.Level(zerolog.InfoLevel)
	}
	srv := mockapi.New(mockapi.Options{Logger: logger, ResetLinkBase: cfg.linkBase})
	for _, seed := range cfg.seeds {
		email, password, ok := strings.Cut(seed, ":")
		if !ok {
			return fmt.Errorf("seed %q: want email:password", seed)
		}
		if err := srv.Seed(email, email, "900000000", password); err != nil {
			return fmt.Errorf("seed %s: %w", email, err)
		}
	}

	ln, err := net.Listen("tcp", cfg.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.addr, err)
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	cmd.Printf("mock backend listening on http://%s\n", ln.Addr())
	logger.Info().Str("addr", ln.Addr().String()).Int("seeded", len(cfg.seeds)).Msg("mock backend started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("mock backend stopped")
	return nil
}
