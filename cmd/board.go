package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pitchquiz/pitchquiz/internal/live"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Run the live leaderboard relay",
	Long: `Serve a websocket relay that players connect to with --board-url.

Endpoints:
  /ws           websocket for game clients
  /leaderboard  current standings as JSON
  /qr           QR code linking to /leaderboard
  /healthz      liveness check`,
	RunE: runBoard,
}

var boardAddr string

func init() {
	fs := boardCmd.Flags()
	fs.StringVar(&boardAddr, "addr", ":8090", "address to listen on (env: PITCHQUIZ_ADDR)")
	bindEnv(fs)
}

const (
	boardTimeout         = 10 * time.Second
	boardShutdownTimeout = 5 * time.Second
)

func runBoard(cmd *cobra.Command, args []string) error {
	hub := live.NewHub(logger)
	srv := &http.Server{
		Addr:              boardAddr,
		Handler:           hub.Handler(),
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: boardTimeout,
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		return hub.Run(ctx)
	})

	g.Go(func() error {
		logger.Info("leaderboard relay listening", zap.String("addr", boardAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), boardShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
