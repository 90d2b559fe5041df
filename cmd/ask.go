package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitchquiz/pitchquiz/internal/game"
	"github.com/pitchquiz/pitchquiz/internal/store"
	"github.com/pitchquiz/pitchquiz/internal/trivia"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Generate and answer questions on the command line (no saved game)",
	Long: `Generate questions for a team and answer them at the prompt.

Rounds are timed exactly like the game. Nothing is saved apart from the
LLM request log. Useful for checking question quality and provider
configuration.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int("count", 5, "Number of questions to generate")
	askCmd.Flags().Bool("strict", false, "Reject malformed questions and retry")
}

func runAsk(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	strict, _ := cmd.Flags().GetBool("strict")
	ctx := cmd.Context()

	if cfg.team == "" {
		return fmt.Errorf("--team is required")
	}
	if count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	league := cfg.league
	if league == "" {
		league = game.DefaultLeague
	}
	cat, err := loadLeagues()
	if err != nil {
		return err
	}
	if !cat.Valid(league) {
		return fmt.Errorf("unknown league %q: choose one of %s", league, strings.Join(cat.Names(), ", "))
	}

	b, err := openBackends(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	provider, err := newProvider(ctx, b.events, logger)
	if err != nil {
		return err
	}

	tcfg := trivia.DefaultConfig()
	if strict {
		tcfg = trivia.StrictConfig()
	}

	fmt.Printf("Team: %s (%s)\n", cfg.team, league)
	fmt.Printf("%d questions, %d seconds each.\n", count, game.RoundSeconds)

	_, err = playQuiz(ctx, quizOptions{
		session: game.Options{
			Acquirer:    trivia.New(provider, tcfg, logger),
			Store:       store.NewMemory(),
			Logger:      logger,
			PlayerName:  cfg.player,
			ValidLeague: cat.Valid,
		},
		league: league,
		team:   cfg.team,
		count:  count,
		lines:  scanLines(os.Stdin),
		out:    os.Stdout,
	})
	return err
}

type quizOptions struct {
	session game.Options // Scheduler is set by playQuiz
	league  string
	team    string
	count   int
	lines   <-chan string
	out     io.Writer
}

// playQuiz runs count rounds of a session on the calling goroutine, which
// serves as the session's event loop. Timer ticks, fetch results and input
// lines are handled one at a time, so a round that runs out of time is
// over even if an answer is typed later.
func playQuiz(ctx context.Context, o quizOptions) (game.View, error) {
	posts := make(chan func(), 16)
	loop := game.NewLoop(func(fn func()) { posts <- fn })

	opts := o.session
	opts.Scheduler = loop
	sess := game.NewSession(opts)
	defer shutdownQuiz(sess, loop, posts)

	if o.league != "" {
		if err := sess.SetLeague(o.league); err != nil {
			return sess.View(), err
		}
	}
	if err := sess.Start(o.team); err != nil {
		return sess.View(), err
	}

	out := o.out
	rounds := 0
	shown := game.PhaseLoading
	awaitingNext := false

	for {
		v := sess.View()
		if v.Phase != shown {
			shown = v.Phase
			switch v.Phase {
			case game.PhaseAwaitingAnswer:
				rounds++
				printQuestion(out, rounds, o.count, v)
			case game.PhaseAnswered:
				printResult(out, v)
			case game.PhaseTimedOut:
				fmt.Fprintf(out, "\n%s The answer was %s.\n\n", v.Message, v.Question.Correct)
			case game.PhaseFailed:
				rounds++
				fmt.Fprintf(out, "Question %d: %s\n\n", rounds, v.Message)
			}

			switch v.Phase {
			case game.PhaseAnswered, game.PhaseTimedOut, game.PhaseFailed:
				if rounds >= o.count {
					return finishQuiz(out, sess), nil
				}
				if v.Phase == game.PhaseTimedOut {
					// A line typed after the whistle moves on instead of
					// answering the next question.
					fmt.Fprint(out, "Press Enter for the next question.")
					awaitingNext = true
				} else if err := sess.Next(); err != nil {
					return sess.View(), err
				}
				continue
			}
		}

		var in <-chan string
		if v.Phase == game.PhaseAwaitingAnswer || awaitingNext {
			in = o.lines
		}

		select {
		case fn := <-posts:
			fn()

		case line, ok := <-in:
			if !ok {
				fmt.Fprintln(out, "\n(input closed)")
				return finishQuiz(out, sess), nil
			}
			if awaitingNext {
				awaitingNext = false
				fmt.Fprintln(out)
				if err := sess.Next(); err != nil {
					return sess.View(), err
				}
				continue
			}
			label, ok := parseAnswer(line)
			if !ok {
				fmt.Fprint(out, "Pick A, B, C or D: ")
				continue
			}
			sess.Select(label)

		case <-ctx.Done():
			return sess.View(), ctx.Err()
		}
	}
}

// shutdownQuiz stops the session and discards callbacks still in flight
// until every loop goroutine has exited.
func shutdownQuiz(sess *game.Session, loop *game.Loop, posts <-chan func()) {
	sess.Close()
	done := make(chan struct{})
	go func() {
		loop.Wait()
		close(done)
	}()
	for {
		select {
		case <-posts:
		case <-done:
			return
		}
	}
}

func printQuestion(out io.Writer, n, count int, v game.View) {
	fmt.Fprintf(out, "── Question %d/%d (%s, %ds) ──\n", n, count, v.Difficulty, v.Remaining)
	fmt.Fprintln(out, v.Question.Text)
	for _, o := range v.Question.Options {
		fmt.Fprintf(out, "  %s. %s\n", o.Label, o.Text)
	}
	fmt.Fprint(out, "\nYour answer: ")
}

func printResult(out io.Writer, v game.View) {
	r := v.Result
	if r.Correct {
		fmt.Fprintf(out, "✅ Correct! +%d", r.Points)
		if r.SpeedBonus {
			fmt.Fprint(out, " ⚡ speed bonus")
		}
		fmt.Fprintln(out)
		if r.Badge != "" {
			fmt.Fprintf(out, "%s %s\n", r.Badge, r.Badge.Description())
		}
	} else {
		fmt.Fprintf(out, "❌ Wrong. The answer was %s.\n", v.Question.Correct)
	}
	if v.Question.Explanation != "" {
		fmt.Fprintf(out, "Explanation: %s\n", v.Question.Explanation)
	}
	fmt.Fprintln(out)
}

func finishQuiz(out io.Writer, sess *game.Session) game.View {
	v := sess.View()
	fmt.Fprintf(out, "── Score %d, Streak %d ──\n", v.Score, v.Streak)
	for _, b := range v.Badges {
		fmt.Fprintf(out, "%s %s\n", b, b.Description())
	}
	return v
}

// parseAnswer accepts a-d or 1-4, case and spacing ignored.
func parseAnswer(line string) (trivia.Label, bool) {
	s := strings.ToUpper(strings.TrimSpace(line))
	switch s {
	case "A", "B", "C", "D":
		return trivia.Label(s), true
	case "1", "2", "3", "4":
		return trivia.Label(string(rune('A' + s[0] - '1'))), true
	}
	return trivia.LabelUnknown, false
}

// scanLines feeds r line by line. The reader goroutine lives as long as r.
func scanLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}
