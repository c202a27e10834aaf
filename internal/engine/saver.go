package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

const saveTimeout = 5 * time.Second

// saver writes snapshots from a single goroutine. Only the newest pending
// snapshot is kept, so writes stay in commit order and a slow store skips
// intermediate states instead of holding up the session.
type saver struct {
	store  Store
	logger *slog.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	pending *quiz.Snapshot
	writing bool
	closed  bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newSaver(store Store, logger *slog.Logger) *saver {
	s := &saver{
		store:  store,
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.idle = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

// submit replaces the pending snapshot. It never blocks.
func (s *saver) submit(snap quiz.Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = &snap
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *saver) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.quit:
			s.drain()
			return
		}
	}
}

func (s *saver) drain() {
	for {
		s.mu.Lock()
		snap := s.pending
		s.pending = nil
		s.writing = snap != nil
		if snap == nil {
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := s.store.SaveSnapshot(ctx, *snap); err != nil {
			s.logger.Error("saving session snapshot", "error", err)
		}
		cancel()
	}
}

// flush waits until every submitted snapshot has been written.
func (s *saver) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.pending != nil || s.writing {
		s.idle.Wait()
	}
}

// close writes the last pending snapshot and stops the goroutine.
func (s *saver) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.quit)
	<-s.done
}
