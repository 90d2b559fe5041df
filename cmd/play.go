package cmd

import (
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/app"
	"github.com/pitchquiz/pitchquiz/internal/live"
	"github.com/pitchquiz/pitchquiz/internal/trivia"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play trivia in the terminal",
	RunE:  runPlay,
}

// runPlay opens the stores, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logPath := cfg.logFile
	if logPath == "" {
		p, err := defaultLogPath()
		if err != nil {
			return err
		}
		logPath = p
	}
	l, err := newLogger(cfg.verbose, logPath)
	if err != nil {
		return err
	}
	logger = l

	b, err := openBackends(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	provider, err := newProvider(ctx, b.events, logger)
	if err != nil {
		return err
	}

	cat, err := loadLeagues()
	if err != nil {
		return err
	}

	deps := app.Deps{
		Acquirer:   trivia.New(provider, trivia.DefaultConfig(), logger),
		Store:      b.kv,
		Leagues:    cat,
		Logger:     logger,
		PlayerName: cfg.player,
		SessionID:  uuid.NewString(),
		Team:       cfg.team,
		League:     cfg.league,
	}
	if b.dbPath != "" {
		deps.ShareDir = filepath.Dir(b.dbPath)
	}

	if cfg.boardURL != "" {
		client, err := live.Dial(ctx, cfg.boardURL, logger)
		if err != nil {
			// The game works without a leaderboard.
			logger.Warn("leaderboard unavailable", zap.String("url", cfg.boardURL), zap.Error(err))
		} else {
			defer client.Close()
			deps.Emitter = client
			deps.Board = client
		}
	}

	logger.Info("starting game", zap.String("session", deps.SessionID), zap.String("store", cfg.storeKind))
	return app.Run(ctx, deps)
}
