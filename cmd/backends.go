package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/leagues"
	"github.com/pitchquiz/pitchquiz/internal/llm"
	"github.com/pitchquiz/pitchquiz/internal/store"
)

// backends are the stores a command works against.
type backends struct {
	kv      store.KV
	events  store.EventRepo // nil with --store=memory
	dbPath  string
	closers []func() error
}

func (b *backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// openBackends opens the saved-game store selected by --store. The SQLite
// database also holds the LLM request log, so it is opened for redis too.
func openBackends(ctx context.Context) (*backends, error) {
	b := &backends{}
	if cfg.storeKind == "memory" {
		b.kv = store.NewMemory()
		return b, nil
	}

	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	b.dbPath = dbPath
	b.closers = append(b.closers, st.Close)
	b.events = st.EventRepo()
	b.kv = st.KV()

	if cfg.storeKind == "redis" {
		r, err := store.OpenRedis(ctx, store.RedisOptions{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.closers = append(b.closers, r.Close)
		b.kv = r
	}
	return b, nil
}

// newProvider builds the generation client from PITCHQUIZ_* settings,
// logging requests to events when it is set.
func newProvider(ctx context.Context, events store.EventRepo, logger *zap.Logger) (llm.Provider, error) {
	p, err := llm.NewProviderFromEnv(ctx, events, logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return p, nil
}

func loadLeagues() (*leagues.Catalogue, error) {
	if cfg.leaguesFile != "" {
		return leagues.LoadFile(cfg.leaguesFile)
	}
	return leagues.Builtin()
}
