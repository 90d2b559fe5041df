package game

import (
	"sync"
	"sync/atomic"
	"time"
)

// TimerHandle cancels a periodic timer. Cancel is idempotent.
type TimerHandle interface {
	Cancel()
}

// Scheduler is the session's view of its event loop. Every callback it runs
// executes on the loop, one at a time.
type Scheduler interface {
	// Every calls fn on the loop once per interval until the handle is
	// cancelled. No call happens after Cancel returns.
	Every(interval time.Duration, fn func()) TimerHandle

	// Go runs work off the loop, then runs the function work returns on the
	// loop. A nil result is skipped.
	Go(work func() func())
}

// Loop implements Scheduler on top of a post function that enqueues a
// closure onto a single-threaded event loop, such as a UI program.
type Loop struct {
	post func(func())
	wg   sync.WaitGroup
}

// NewLoop returns a Loop that delivers callbacks through post. post must be
// safe to call from any goroutine.
func NewLoop(post func(func())) *Loop {
	return &Loop{post: post}
}

type loopTimer struct {
	once      sync.Once
	cancelled atomic.Bool
	stop      chan struct{}
}

func (t *loopTimer) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.stop)
	})
}

func (l *Loop) Every(interval time.Duration, fn func()) TimerHandle {
	t := &loopTimer{stop: make(chan struct{})}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				// A tick already posted when Cancel runs is dropped here.
				l.post(func() {
					if t.cancelled.Load() {
						return
					}
					fn()
				})
			}
		}
	}()

	return t
}

func (l *Loop) Go(work func() func()) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if done := work(); done != nil {
			l.post(done)
		}
	}()
}

// Wait blocks until every timer goroutine has stopped and every Go work
// function has returned and posted its result.
func (l *Loop) Wait() {
	l.wg.Wait()
}
