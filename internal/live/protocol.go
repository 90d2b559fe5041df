package live

import "sort"

// Message types on the leaderboard channel.
const (
	TypeJoin               = "join"
	TypeScore              = "score"
	TypeReset              = "reset"
	TypeLeaderboardRequest = "leaderboard?"
	TypeLeaderboard        = "leaderboard"
)

// Message is the single JSON envelope used in both directions.
type Message struct {
	Type    string  `json:"type"`
	Name    string  `json:"name,omitempty"`
	Points  int     `json:"points,omitempty"`
	Entries []Entry `json:"entries,omitempty"`
}

// Entry is one player's cumulative score.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// sortEntries orders by score descending, then name.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
}
