package engine

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

// countdown owns the one-second ticker. Every start or halt bumps epoch, and
// a tick carrying an older epoch is discarded, so a tick that was already
// waiting on the session lock can never act after a transition.
type countdown struct {
	clock clockwork.Clock
	epoch uint64
	stop  chan struct{}
}

func (c *countdown) running() bool { return c.stop != nil }

func (c *countdown) start(fire func(epoch uint64)) {
	c.halt()
	epoch := c.epoch
	stop := make(chan struct{})
	c.stop = stop

	ticker := c.clock.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				fire(epoch)
			}
		}
	}()
}

func (c *countdown) halt() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.epoch++
}

// listen opens the buzzer and starts ticking. It is a no-op when no time is
// left, a team holds the buzzer, or the question already timed out.
func (e *Engine) listen() bool {
	s := &e.s
	if s.timerValue <= 0 || s.buzzerWinner != noTeam || s.status == quiz.StatusTimeout {
		return false
	}
	s.buzzerLocked = false
	s.status = quiz.StatusListening
	s.mediaPlaying = true
	e.timer.start(e.tick)
	return true
}

// reopen hands the buzzer back to the teams that are not locked out,
// resuming the countdown from its current value.
func (e *Engine) reopen() {
	e.s.buzzerWinner = noTeam
	if e.listen() {
		return
	}
	e.s.status = quiz.StatusListening
	e.s.buzzerLocked = false
}

func (e *Engine) tick(epoch uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if epoch != e.timer.epoch || e.s.timerValue <= 0 {
		return
	}
	e.s.timerValue--
	e.notify.TimerTick(e.s.timerValue)
	if e.s.timerValue > 0 {
		return
	}

	e.timer.halt()
	if e.strategy != nil {
		e.strategy.onTimeout(e)
	} else {
		timeout(e)
	}
	e.commit()
}

// timeout is the default expiry behavior.
func timeout(e *Engine) {
	e.s.buzzerLocked = true
	e.s.status = quiz.StatusTimeout
	e.s.mediaPlaying = false
	e.cue(quiz.CueTimeout)
}

// StartTimer opens the listening window from READING or PAUSED, resuming
// from the current timer value.
func (e *Engine) StartTimer() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.s.status {
	case quiz.StatusReading, quiz.StatusPaused:
	default:
		return
	}
	if e.listen() {
		e.commit()
	}
}

// PauseTimer halts ticking and locks the buzzer without losing time. A
// listening window with no countdown left, such as a Countdown question
// after expiry, cannot be paused.
func (e *Engine) PauseTimer() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.status != quiz.StatusListening || !e.timer.running() {
		return
	}
	e.timer.halt()
	e.s.status = quiz.StatusPaused
	e.s.buzzerLocked = true
	e.s.mediaPlaying = false
	e.commit()
}
