package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/store"
)

// Persisted field names. They match what earlier versions of the game
// stored, so existing profiles keep working.
const (
	KeyPlayerName   = "playerName"
	KeyInGame       = "inGame"
	KeyLeague       = "league"
	KeyTeam         = "team"
	KeyScore        = "score"
	KeyStreak       = "streak"
	KeyBadgeHistory = "badgeHistory"
	KeyFunFacts     = "funFacts"
)

// AllKeys lists every persisted field.
var AllKeys = []string{
	KeyPlayerName, KeyInGame, KeyLeague, KeyTeam,
	KeyScore, KeyStreak, KeyBadgeHistory, KeyFunFacts,
}

const (
	DefaultPlayerName = "Anonymous"
	DefaultLeague     = "Premier League"
)

const persistTimeout = 2 * time.Second

// profile is the persisted slice of session state.
type profile struct {
	playerName string
	inGame     bool
	league     string
	team       string
	score      int
	streak     int
	badges     Badges
	funFact    string
}

// loadProfile reads every field, substituting defaults for missing or
// unreadable values. Read failures are logged, never returned.
func loadProfile(kv store.KV, logger *zap.Logger) profile {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	p := profile{playerName: DefaultPlayerName, league: DefaultLeague}

	warn := func(key string, err error) {
		if err != nil {
			logger.Warn("failed to read session field", zap.String("key", key), zap.Error(err))
		}
	}

	var err error
	p.playerName, err = store.GetString(ctx, kv, KeyPlayerName, DefaultPlayerName)
	warn(KeyPlayerName, err)
	if p.playerName == "" {
		p.playerName = DefaultPlayerName
	}
	p.inGame, err = store.GetBool(ctx, kv, KeyInGame)
	warn(KeyInGame, err)
	p.league, err = store.GetString(ctx, kv, KeyLeague, DefaultLeague)
	warn(KeyLeague, err)
	if p.league == "" {
		p.league = DefaultLeague
	}
	p.team, err = store.GetString(ctx, kv, KeyTeam, "")
	warn(KeyTeam, err)
	p.score, err = store.GetInt(ctx, kv, KeyScore, 0)
	warn(KeyScore, err)
	p.streak, err = store.GetInt(ctx, kv, KeyStreak, 0)
	warn(KeyStreak, err)

	var badges []string
	warn(KeyBadgeHistory, store.GetJSON(ctx, kv, KeyBadgeHistory, &badges))
	for _, b := range badges {
		p.badges = append(p.badges, Badge(b))
	}
	p.badges = p.badges.dedupe()

	var facts []string
	warn(KeyFunFacts, store.GetJSON(ctx, kv, KeyFunFacts, &facts))
	if len(facts) > 0 {
		p.funFact = facts[len(facts)-1]
	}

	if p.score < 0 {
		p.score = 0
	}
	if p.streak < 0 {
		p.streak = 0
	}
	return p
}

type fieldWrite struct {
	key string
	fn  func() error
}

// saveProfile writes every field. The fun fact is only written when set.
// Failures are logged and otherwise ignored.
func saveProfile(kv store.KV, logger *zap.Logger, p profile) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	badges := make([]string, len(p.badges))
	for i, b := range p.badges {
		badges[i] = string(b)
	}

	writes := []fieldWrite{
		{KeyPlayerName, func() error { return kv.Set(ctx, KeyPlayerName, p.playerName) }},
		{KeyInGame, func() error { return store.SetBool(ctx, kv, KeyInGame, p.inGame) }},
		{KeyLeague, func() error { return kv.Set(ctx, KeyLeague, p.league) }},
		{KeyTeam, func() error { return kv.Set(ctx, KeyTeam, p.team) }},
		{KeyScore, func() error { return store.SetInt(ctx, kv, KeyScore, p.score) }},
		{KeyStreak, func() error { return store.SetInt(ctx, kv, KeyStreak, p.streak) }},
		{KeyBadgeHistory, func() error { return store.SetJSON(ctx, kv, KeyBadgeHistory, badges) }},
	}
	if p.funFact != "" {
		writes = append(writes, fieldWrite{KeyFunFacts, func() error {
			return store.SetJSON(ctx, kv, KeyFunFacts, []string{p.funFact})
		}})
	}

	for _, w := range writes {
		if err := w.fn(); err != nil {
			logger.Warn("failed to persist session field", zap.String("key", w.key), zap.Error(err))
		}
	}
}

// ClearProfile deletes every persisted field.
func ClearProfile(ctx context.Context, kv store.KV) error {
	return kv.Delete(ctx, AllKeys...)
}
