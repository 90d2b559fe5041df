package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/store"
)

// Config holds the global flags. Every flag can also be set through a
// PITCHQUIZ_ environment variable named after it.
type Config struct {
	dbPath        string
	storeKind     string
	redisAddr     string
	redisPassword string
	redisDB       int
	player        string
	league        string
	leaguesFile   string
	team          string
	boardURL      string
	verbose       bool
	logFile       string
}

var (
	cfg    Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "pitchquiz",
	Short:         "AI football trivia in your terminal",
	Long:          "PitchQuiz asks AI-generated football trivia about your team, getting harder as your streak grows.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runPlay,
}

// Execute runs the root command until it returns or ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup validates the global flags and builds the logger. The game screen
// owns the terminal, so the root and play commands log to a file instead.
func setup(cmd *cobra.Command, args []string) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if !cmd.HasParent() || cmd.Name() == "play" {
		return nil
	}
	l, err := newLogger(cfg.verbose, cfg.logFile)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.StringVar(&cfg.dbPath, "db", "", "path to SQLite database file (env: PITCHQUIZ_DB)")
	fs.StringVar(&cfg.storeKind, "store", "sqlite", "where the saved game lives: sqlite, redis or memory (env: PITCHQUIZ_STORE)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "localhost:6379", "redis address for --store=redis (env: PITCHQUIZ_REDIS_ADDR)")
	fs.StringVar(&cfg.redisPassword, "redis-password", "", "redis password (env: PITCHQUIZ_REDIS_PASSWORD)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database number (env: PITCHQUIZ_REDIS_DB)")
	fs.StringVar(&cfg.player, "player", "", "display name on the leaderboard (env: PITCHQUIZ_PLAYER)")
	fs.StringVar(&cfg.league, "league", "", "league to ask about (env: PITCHQUIZ_LEAGUE)")
	fs.StringVar(&cfg.leaguesFile, "leagues-file", "", "YAML league catalogue replacing the built-in one (env: PITCHQUIZ_LEAGUES_FILE)")
	fs.StringVar(&cfg.team, "team", "", "team to ask about (env: PITCHQUIZ_TEAM)")
	fs.StringVar(&cfg.boardURL, "board-url", "", "websocket URL of a leaderboard relay, e.g. ws://host:8090/ws (env: PITCHQUIZ_BOARD_URL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log debug output (env: PITCHQUIZ_VERBOSE)")
	fs.StringVar(&cfg.logFile, "log-file", "", "log destination; the game defaults to a file in the state directory (env: PITCHQUIZ_LOG_FILE)")
	bindEnv(fs)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindEnv lets PITCHQUIZ_<FLAG> set any flag in fs that was not given on
// the command line.
func bindEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix("PITCHQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func (c *Config) validate() error {
	switch c.storeKind {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("invalid --store %q: must be sqlite, redis or memory", c.storeKind)
	}
	if c.redisDB < 0 {
		return fmt.Errorf("invalid --redis-db %d", c.redisDB)
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PITCHQUIZ_DB env var, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.dbPath != "" {
		return cfg.dbPath, store.EnsureDir(cfg.dbPath)
	}
	return store.DefaultDBPath()
}
