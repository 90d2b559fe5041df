package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// chanLoop is a minimal event loop: callbacks are queued on a channel and
// run by the test goroutine.
type chanLoop chan func()

func (c chanLoop) post(fn func()) { c <- fn }

func (c chanLoop) runUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case fn := <-c:
			fn()
		case <-deadline:
			t.Fatal("condition not met before deadline")
		}
	}
}

// drain runs whatever is queued until the loop has been idle for a moment.
func (c chanLoop) drain() {
	for {
		select {
		case fn := <-c:
			fn()
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func TestLoop_GoPostsResult(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	q := make(chanLoop, 8)
	l := NewLoop(q.post)

	var ran atomic.Bool
	got := 0
	l.Go(func() func() {
		ran.Store(true)
		return func() { got = 42 }
	})

	q.runUntil(t, func() bool { return got == 42 })
	assert.True(t, ran.Load())
	l.Wait()
}

func TestLoop_GoNilResult(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	q := make(chanLoop, 8)
	l := NewLoop(q.post)
	l.Go(func() func() { return nil })
	l.Wait()

	assert.Empty(t, q)
}

func TestLoop_EveryStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	q := make(chanLoop, 64)
	l := NewLoop(q.post)

	ticks := 0
	h := l.Every(5*time.Millisecond, func() { ticks++ })

	q.runUntil(t, func() bool { return ticks >= 3 })
	h.Cancel()
	h.Cancel()

	stopped := ticks
	q.drain()
	l.Wait()
	assert.Equal(t, stopped, ticks)
}

func TestLoop_DrivesSession(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	q := make(chanLoop, 64)
	l := NewLoop(q.post)
	s := NewSession(Options{
		Acquirer:     &scriptedAcquirer{},
		Scheduler:    l,
		RoundSeconds: 2,
		TickInterval: 5 * time.Millisecond,
	})

	require.NoError(t, s.Start("Arsenal"))
	q.runUntil(t, func() bool { return s.View().Phase == PhaseTimedOut })
	assert.Equal(t, MsgTimeUp, s.View().Message)

	s.Close()
	q.drain()
	l.Wait()
}
