package live

// Emitter publishes game events to the leaderboard. Delivery is at most
// once: implementations never block the caller and never report failure.
type Emitter interface {
	Join(name string)
	Score(name string, points int)
	Reset(name string)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Join(string)       {}
func (Nop) Score(string, int) {}
func (Nop) Reset(string)      {}
