package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/live"
	"github.com/pitchquiz/pitchquiz/internal/llm"
	"github.com/pitchquiz/pitchquiz/internal/store"
	"github.com/pitchquiz/pitchquiz/internal/trivia"
)

// Acquirer produces a question not yet in asked.
type Acquirer interface {
	Acquire(ctx context.Context, pc trivia.PromptContext, asked trivia.Asked) (trivia.Question, error)
}

// Options configures a Session.
type Options struct {
	Acquirer  Acquirer  // required
	Scheduler Scheduler // required

	Store   store.KV     // nil keeps state in memory only
	Emitter live.Emitter // nil disables live updates
	Logger  *zap.Logger

	// PlayerName replaces the persisted display name when non-empty.
	PlayerName string

	// ValidLeague restricts SetLeague. Nil accepts any non-empty name.
	ValidLeague func(string) bool

	// SessionID tags generation requests. Empty means a random UUID.
	SessionID string

	RoundSeconds int           // zero means RoundSeconds
	TickInterval time.Duration // zero means one second
}

// Session is the game state machine. It is not safe for concurrent use:
// every method, and every callback it hands to its Scheduler, must run on
// the same event loop.
type Session struct {
	acquirer    Acquirer
	sched       Scheduler
	kv          store.KV
	emitter     live.Emitter
	logger      *zap.Logger
	validLeague func(string) bool

	roundSeconds int
	tickInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	id     string

	phase       Phase
	playerName  string
	league      string
	team        string
	inGame      bool
	joined      bool
	score       int
	streak      int
	badges      Badges
	justEarned  Badge
	asked       *trivia.AskedSet
	lastLatency trivia.Latency

	current   *trivia.Question
	selected  trivia.Label
	result    *RoundResult
	remaining int
	timer     TimerHandle

	inFlight    bool
	generation  uint64
	cancelFetch context.CancelFunc

	funFact string
	message string
	lastErr error
}

// NewSession builds a session and restores persisted fields from the store.
func NewSession(opts Options) *Session {
	s := &Session{
		acquirer:     opts.Acquirer,
		sched:        opts.Scheduler,
		kv:           opts.Store,
		emitter:      opts.Emitter,
		logger:       opts.Logger,
		validLeague:  opts.ValidLeague,
		roundSeconds: opts.RoundSeconds,
		tickInterval: opts.TickInterval,
		id:           opts.SessionID,
		asked:        trivia.NewAskedSet(),
		lastLatency:  trivia.LatencyUnknown,
	}
	if s.kv == nil {
		s.kv = store.NewMemory()
	}
	if s.emitter == nil {
		s.emitter = live.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.roundSeconds <= 0 {
		s.roundSeconds = RoundSeconds
	}
	if s.tickInterval <= 0 {
		s.tickInterval = time.Second
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.logger = s.logger.With(zap.String("session", s.id))
	s.ctx, s.cancel = context.WithCancel(llm.WithSessionID(context.Background(), s.id))

	p := loadProfile(s.kv, s.logger)
	s.playerName = p.playerName
	s.inGame = p.inGame
	s.league = p.league
	s.team = p.team
	s.score = p.score
	s.streak = p.streak
	s.badges = p.badges
	s.funFact = p.funFact

	if opts.PlayerName != "" && opts.PlayerName != s.playerName {
		s.playerName = opts.PlayerName
		s.persist()
	}
	return s
}

// ID returns the session identifier attached to generation requests.
func (s *Session) ID() string { return s.id }

// Start begins a game for team, or continues a saved one, and fetches the
// first question. A fresh game zeroes score, streak, badges and the asked set.
func (s *Session) Start(team string) error {
	if team == "" {
		return ErrNoTeam
	}
	if s.inFlight {
		return ErrFetchInFlight
	}
	if s.phase != PhaseNotStarted {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, s.phase)
	}

	if !s.joined {
		s.emitter.Join(s.playerName)
		s.joined = true
	}

	if !s.inGame {
		s.score = 0
		s.streak = 0
		s.badges = nil
		s.asked.Clear()
		s.lastLatency = trivia.LatencyUnknown
	}
	s.inGame = true
	s.team = team
	s.message = ""
	s.persist()

	s.fetch()
	return nil
}

// Next requests the following question once the current round is over,
// or retries after a failed fetch.
func (s *Session) Next() error {
	if s.inFlight {
		return ErrFetchInFlight
	}
	switch s.phase {
	case PhaseAnswered, PhaseTimedOut, PhaseFailed:
	default:
		return fmt.Errorf("%w: next while %s", ErrInvalidTransition, s.phase)
	}
	s.fetch()
	return nil
}

// Select answers the current question. Only the first selection of a round
// counts; it reports whether this call was that selection.
func (s *Session) Select(label trivia.Label) bool {
	if s.phase != PhaseAwaitingAnswer || s.current == nil {
		return false
	}
	s.stopTimer()

	latency := trivia.Latency(s.roundSeconds - s.remaining)
	res := RoundResult{
		Selected: label,
		Correct:  s.current.IsCorrect(label),
		Latency:  latency,
	}

	if res.Correct {
		res.Points = 1
		if latency < trivia.FastAnswerSeconds {
			res.Points++
			res.SpeedBonus = true
		}
		s.streak++
		if s.current.Explanation != "" {
			s.funFact = s.current.Explanation
		}
		if b, ok := BadgeForStreak(s.streak); ok {
			if badges, added := s.badges.With(b); added {
				s.badges = badges
				s.justEarned = b
				res.Badge = b
			}
		}
	} else {
		s.streak = 0
	}

	s.score += res.Points
	s.lastLatency = latency
	s.selected = label
	s.result = &res
	s.phase = PhaseAnswered

	s.emitter.Score(s.playerName, res.Points)
	s.persist()
	return true
}

// Reset abandons the game: the timer stops, any pending fetch is discarded
// and every counter goes back to zero.
func (s *Session) Reset() {
	s.stopTimer()
	s.abortFetch()

	s.phase = PhaseNotStarted
	s.inGame = false
	s.score = 0
	s.streak = 0
	s.badges = nil
	s.justEarned = ""
	s.asked.Clear()
	s.lastLatency = trivia.LatencyUnknown
	s.current = nil
	s.selected = trivia.LabelUnknown
	s.result = nil
	s.remaining = 0
	s.funFact = ""
	s.message = ""
	s.lastErr = nil

	s.emitter.Reset(s.playerName)
	s.persist()
	s.forget(KeyFunFacts)
}

// ChangeTeam switches team. During a game with no fetch pending, the
// current round is dropped and a question about the new team is fetched.
func (s *Session) ChangeTeam(team string) error {
	if team == "" {
		return ErrNoTeam
	}
	s.team = team
	s.persist()

	if !s.inGame || s.inFlight || s.phase == PhaseNotStarted {
		return nil
	}
	s.fetch()
	return nil
}

// SetLeague records the league used as prompt context.
func (s *Session) SetLeague(league string) error {
	if league == "" || (s.validLeague != nil && !s.validLeague(league)) {
		return fmt.Errorf("%w: %q", ErrUnknownLeague, league)
	}
	s.league = league
	s.persist()
	return nil
}

// ShareText is the one-line brag copied by the share action.
func (s *Session) ShareText() string {
	return fmt.Sprintf("⚽ Trivia – Score %d, Streak %d", s.score, s.streak)
}

// Close stops the timer and abandons any pending fetch. The session must
// not be used afterwards.
func (s *Session) Close() {
	s.stopTimer()
	s.abortFetch()
	s.cancel()
}

// View returns a snapshot for rendering.
func (s *Session) View() View {
	v := View{
		Phase:      s.phase,
		PlayerName: s.playerName,
		League:     s.league,
		Team:       s.team,
		InGame:     s.inGame,
		Score:      s.score,
		Streak:     s.streak,
		Difficulty: trivia.DifficultyFor(s.streak),
		Badges:     append(Badges(nil), s.badges...),
		JustEarned: s.justEarned,
		Selected:   s.selected,
		Remaining:  s.remaining,
		FunFact:    s.funFact,
		Message:    s.message,
		Err:        s.lastErr,
	}
	if s.current != nil {
		q := *s.current
		v.Question = &q
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	return v
}

// AskedCount returns how many distinct questions were served this game.
func (s *Session) AskedCount() int {
	return s.asked.Len()
}

func (s *Session) fetch() {
	s.stopTimer()

	s.generation++
	gen := s.generation
	s.inFlight = true
	s.phase = PhaseLoading
	s.current = nil
	s.selected = trivia.LabelUnknown
	s.result = nil
	s.remaining = 0
	s.funFact = ""
	s.justEarned = ""
	s.message = ""
	s.lastErr = nil

	pc := trivia.NewPromptContext(s.streak, s.lastLatency, s.league, s.team)
	asked := s.asked.Clone()
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancelFetch = cancel

	acquirer := s.acquirer
	s.sched.Go(func() func() {
		q, err := acquirer.Acquire(ctx, pc, asked)
		return func() { s.deliver(gen, q, err) }
	})
}

// deliver applies an acquisition result on the loop. Results from a fetch
// that was reset or superseded are dropped.
func (s *Session) deliver(gen uint64, q trivia.Question, err error) {
	if gen != s.generation || !s.inFlight {
		s.logger.Debug("discarding stale question result", zap.Uint64("generation", gen))
		return
	}
	s.inFlight = false
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}

	if err != nil {
		s.phase = PhaseFailed
		s.lastErr = err
		s.message = failureMessage(err)
		s.logger.Warn("question fetch failed", zap.Error(err))
		return
	}

	s.asked.Add(q.Text)
	s.current = &q
	s.remaining = s.roundSeconds
	s.phase = PhaseAwaitingAnswer
	s.timer = s.sched.Every(s.tickInterval, s.tick)
}

func (s *Session) tick() {
	if s.phase != PhaseAwaitingAnswer {
		return
	}
	s.remaining--
	if s.remaining > 0 {
		return
	}

	s.remaining = 0
	s.stopTimer()
	s.phase = PhaseTimedOut
	s.streak = 0
	s.lastLatency = trivia.LatencyUnknown
	s.message = MsgTimeUp
	s.persist()
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Cancel()
		s.timer = nil
	}
}

func (s *Session) abortFetch() {
	s.generation++
	s.inFlight = false
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
}

func (s *Session) persist() {
	saveProfile(s.kv, s.logger, profile{
		playerName: s.playerName,
		inGame:     s.inGame,
		league:     s.league,
		team:       s.team,
		score:      s.score,
		streak:     s.streak,
		badges:     s.badges,
		funFact:    s.funFact,
	})
}

func (s *Session) forget(keys ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.kv.Delete(ctx, keys...); err != nil {
		s.logger.Warn("failed to clear session fields", zap.Strings("keys", keys), zap.Error(err))
	}
}

func failureMessage(err error) string {
	if errors.Is(err, trivia.ErrExhaustedAttempts) {
		return MsgNoUniqueQuestion
	}
	return MsgFetchError
}
