package game

import "slices"

// Badge is a one-time streak achievement.
type Badge string

const (
	BadgeStreak3 Badge = "🔥 3-Correct Streak!"
	BadgeStreak5 Badge = "🏅 5-Correct Streak!"
)

// badgeMilestones maps a streak length to the badge it earns.
var badgeMilestones = map[int]Badge{
	3: BadgeStreak3,
	5: BadgeStreak5,
}

// BadgeForStreak returns the badge earned on reaching streak, if any.
func BadgeForStreak(streak int) (Badge, bool) {
	b, ok := badgeMilestones[streak]
	return b, ok
}

// Description returns the hover text shown on the badge wall.
func (b Badge) Description() string {
	switch b {
	case BadgeStreak3:
		return "Earned for 3 in a row"
	case BadgeStreak5:
		return "Earned for 5 in a row"
	default:
		return string(b)
	}
}

// Badges is an insertion-ordered set of earned badges.
type Badges []Badge

// Has reports whether b was earned.
func (bs Badges) Has(b Badge) bool {
	return slices.Contains(bs, b)
}

// With returns bs with b appended, unless already present.
func (bs Badges) With(b Badge) (Badges, bool) {
	if bs.Has(b) {
		return bs, false
	}
	return append(bs, b), true
}

// dedupe drops repeats, keeping first occurrences in order.
func (bs Badges) dedupe() Badges {
	var out Badges
	for _, b := range bs {
		out, _ = out.With(b)
	}
	return out
}
