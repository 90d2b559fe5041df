package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitchquiz/pitchquiz/internal/llm"
	"github.com/pitchquiz/pitchquiz/internal/store"
	"github.com/pitchquiz/pitchquiz/internal/trivia"
)

const timeLayout = "Jan 02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded question generation requests",
	Long: `Every question request sent to the provider is logged to the SQLite
database, whatever --store is set to. These commands show what was asked,
what came back and which question the game made of it.`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent question requests with the question each produced",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")
		all, _ := cmd.Flags().GetBool("all")

		opts := store.QueryOpts{Limit: limit, Purpose: trivia.Purpose, SessionID: session}
		if all {
			opts.Purpose = ""
		}

		s, err := openEventLog()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		writeRequestList(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a request's prompt, the raw reply and the parsed question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openEventLog()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("request %d not found", id)
		}
		writeRequest(cmd.OutOrStdout(), *e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize question generation: outcomes, tokens and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _ := cmd.Flags().GetString("session")

		s, err := openEventLog()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Purpose: trivia.Purpose, SessionID: session})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No questions requested yet.")
			return nil
		}
		writeTally(out, tallyRequests(events))

		// Pricing is per model over the whole log, so a session filter
		// does not apply to it.
		if session != "" {
			return nil
		}
		usage, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		writeCost(out, usage)
		return nil
	},
}

// outcome classifies what a logged request gave the game.
func outcome(e store.LLMEvent) (trivia.Question, string) {
	if !e.Success {
		return trivia.Question{}, "failed"
	}
	q := trivia.Parse(e.ResponseBody)
	if q.IsPlaceholder() || len(q.Options) == 0 {
		return q, "unusable"
	}
	return q, "question"
}

// headline is the one-line summary shown by llm list.
func headline(e store.LLMEvent) string {
	q, kind := outcome(e)
	switch kind {
	case "failed":
		return "✗ " + firstLine(e.ErrorMessage)
	case "unusable":
		return "? no question in reply"
	}
	return fmt.Sprintf("%s [%s]", q.Text, q.Correct)
}

func writeRequestList(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No question requests found.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-15s  %-8s  %-22s  %6s  %s\n",
		"ID", "When", "Session", "Model", "Ms", "Question")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, e := range events {
		fmt.Fprintf(w, "%-5d  %-15s  %-8s  %-22s  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format(timeLayout),
			truncate(e.SessionID, 8),
			truncate(e.Model, 22),
			e.LatencyMs,
			truncate(headline(e), 60),
		)
	}
}

func writeRequest(w io.Writer, e store.LLMEvent) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "Request %d, %s\n", e.ID, e.Timestamp.Local().Format(timeLayout))
	if e.SessionID != "" {
		fmt.Fprintf(w, "Session   %s\n", e.SessionID)
	}
	fmt.Fprintf(w, "Model     %s (%s)\n", e.Model, e.Provider)
	fmt.Fprintf(w, "Tokens    %d in, %d out in %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)

	q, kind := outcome(e)
	fmt.Fprintln(w, sep)
	switch kind {
	case "failed":
		fmt.Fprintf(w, "No question: %s\n", e.ErrorMessage)
	case "unusable":
		fmt.Fprintln(w, "The reply did not contain a usable question.")
	default:
		writeQuestion(w, q)
	}

	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "Prompt")
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, orNotCaptured(e.RequestBody))
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "Reply")
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, orNotCaptured(e.ResponseBody))
}

func writeQuestion(w io.Writer, q trivia.Question) {
	fmt.Fprintln(w, q.Text)
	for _, o := range q.Options {
		mark := " "
		if o.Label == q.Correct {
			mark = "✓"
		}
		fmt.Fprintf(w, " %s %s. %s\n", mark, o.Label, o.Text)
	}
	if _, ok := q.Option(q.Correct); !ok {
		fmt.Fprintf(w, "Answer %s matches no option.\n", q.Correct)
	}
	if q.Explanation != "" {
		fmt.Fprintf(w, "Explanation: %s\n", q.Explanation)
	}
}

type requestTally struct {
	requests  int
	questions int
	unusable  int
	failed    int
	tokensIn  int
	tokensOut int
	latencyMs int64
}

func tallyRequests(events []store.LLMEvent) requestTally {
	var t requestTally
	for _, e := range events {
		t.requests++
		t.tokensIn += e.InputTokens
		t.tokensOut += e.OutputTokens
		t.latencyMs += e.LatencyMs
		switch _, kind := outcome(e); kind {
		case "failed":
			t.failed++
		case "unusable":
			t.unusable++
		default:
			t.questions++
		}
	}
	return t
}

func writeTally(w io.Writer, t requestTally) {
	fmt.Fprintf(w, "Requests   %d\n", t.requests)
	fmt.Fprintf(w, "Questions  %d\n", t.questions)
	fmt.Fprintf(w, "Unusable   %d\n", t.unusable)
	fmt.Fprintf(w, "Failed     %d\n", t.failed)
	fmt.Fprintf(w, "Tokens     %d in, %d out\n", t.tokensIn, t.tokensOut)
	if t.requests > 0 {
		fmt.Fprintf(w, "Avg wait   %dms\n", t.latencyMs/int64(t.requests))
	}
}

func writeCost(w io.Writer, usage []store.ModelUsage) {
	if len(usage) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-28s  %6s  %10s\n", "Model", "Calls", "Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 48))

	var total float64
	var unpriced []string
	for _, mu := range usage {
		price := llm.LookupCost(mu.Model)
		if price == nil {
			unpriced = append(unpriced, mu.Model)
			fmt.Fprintf(w, "%-28s  %6d  %10s\n", truncate(mu.Model, 28), mu.Calls, "?")
			continue
		}
		c := price.Cost(mu.InputTokens, mu.OutputTokens)
		total += c
		fmt.Fprintf(w, "%-28s  %6d  %10s\n", truncate(mu.Model, 28), mu.Calls, formatCost(c))
	}
	fmt.Fprintln(w, strings.Repeat("─", 48))
	fmt.Fprintf(w, "%-28s  %6s  %10s\n", "Total", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "No pricing for %s; total excludes them.\n", strings.Join(unpriced, ", "))
	}
}

// openEventLog opens the SQLite database holding the request log,
// whatever --store says.
func openEventLog() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func orNotCaptured(s string) string {
	if s == "" {
		return "(not captured)"
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("session", "s", "", "Only requests made by this game session")
	llmListCmd.Flags().Bool("all", false, "Include requests not made for questions")
	llmStatsCmd.Flags().StringP("session", "s", "", "Only requests made by this game session")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
