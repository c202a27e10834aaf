// Package engine runs a single moderator-driven game session: the status
// state machine, buzzer arbitration, countdown timer, team ledger funnel and
// the per-format round strategies.
//
// Every exported method takes the session lock for its whole duration, and
// the timer tick takes the same lock, so session state is never mutated
// concurrently. Notifier callbacks run while the lock is held and must not
// block or call back into the Engine.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
	"github.com/VincentIliano/QuizMaster/internal/storage"
)

const noTeam = -1

// Store persists the two session documents.
type Store interface {
	LoadRounds(ctx context.Context) ([]quiz.Round, error)
	SaveRounds(ctx context.Context, rounds []quiz.Round) error
	LoadSnapshot(ctx context.Context) (quiz.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap quiz.Snapshot) error
}

// Notifier receives outward notifications.
type Notifier interface {
	StateChanged(state PublicState)
	TimerTick(remaining int)
	PlayCue(cue quiz.Cue)
}

type nopNotifier struct{}

func (nopNotifier) StateChanged(PublicState) {}
func (nopNotifier) TimerTick(int)            {}
func (nopNotifier) PlayCue(quiz.Cue)         {}

// Options configures an Engine. Zero values select a real clock, a no-op
// notifier, the default logger and no false-start penalty.
type Options struct {
	Clock             clockwork.Clock
	Notifier          Notifier
	Logger            *slog.Logger
	FalseStartPenalty int
}

// Engine owns the session.
type Engine struct {
	mu sync.Mutex

	store   Store
	saver   *saver
	notify  Notifier
	logger  *slog.Logger
	clock   clockwork.Clock
	penalty int

	s        session
	strategy strategy
	timer    countdown
}

// New builds an engine, loading round definitions fresh from the store and
// restoring the last session snapshot when one can be read.
func New(ctx context.Context, store Store, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := &Engine{
		store:   store,
		saver:   newSaver(store, opts.Logger),
		notify:  opts.Notifier,
		logger:  opts.Logger,
		clock:   opts.Clock,
		penalty: opts.FalseStartPenalty,
		s:       newSession(),
		timer:   countdown{clock: opts.Clock},
	}

	rounds, err := store.LoadRounds(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		e.logger.Warn("no round definitions found, starting with none")
	case err != nil:
		e.logger.Error("loading round definitions", "error", err)
	}
	e.s.setRounds(rounds)

	snap, err := store.LoadSnapshot(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		e.logger.Info("no session snapshot, starting fresh")
	case err != nil:
		e.logger.Error("session snapshot unreadable, starting fresh", "error", err)
	default:
		e.restore(snap)
		e.logger.Info("session restored", "teams", len(e.s.teams), "rounds", len(e.s.rounds))
	}

	return e
}

// Close stops any running countdown and waits for the last snapshot to be
// written. It is safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	e.timer.halt()
	e.mu.Unlock()
	e.saver.close()
}

// State returns the current public projection.
func (e *Engine) State() PublicState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project()
}

// Rounds returns a copy of the live round definitions.
func (e *Engine) Rounds() []quiz.Round {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRounds(e.s.rounds)
}

// commit queues the session for persistence and broadcasts the new
// projection. Save failures are logged by the saver; the next successful
// write carries the full state.
func (e *Engine) commit() {
	e.saver.submit(e.snapshot())
	e.notify.StateChanged(e.project())
}

func (e *Engine) cue(c quiz.Cue) {
	e.notify.PlayCue(c)
}

func (e *Engine) ignore(action, reason string, args ...any) {
	e.logger.Warn("ignoring action", append([]any{"action", action, "reason", reason}, args...)...)
}

// award changes a team's score through the ledger and attributes the delta
// to the bound round.
func (e *Engine) award(team, amount int, reason string) {
	if !e.s.validTeam(team) {
		return
	}
	name := ""
	if round, prog, ok := e.s.currentRound(); ok {
		name = round.Name
		prog.Scores[team] += amount
	}
	e.s.teams[team].AddPoints(e.clock.Now(), amount, reason, name)
}

// resetTransient clears everything that belongs to a single question.
func (e *Engine) resetTransient() {
	e.timer.halt()
	e.s.buzzerWinner = noTeam
	e.s.buzzerLocked = true
	e.s.lockedOut = nil
	e.s.lastJudgement = nil
	e.s.mediaPlaying = false
}

func (e *Engine) bind(index int) {
	e.s.roundIndex = index
	e.strategy = newStrategy(e.s.rounds[index].Format)
}

func (e *Engine) unbind() {
	e.s.roundIndex = -1
	e.s.questionIndex = -1
	e.strategy = nil
}

func judgement(v bool) *bool { return &v }
