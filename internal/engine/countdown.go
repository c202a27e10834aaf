package engine

import "github.com/VincentIliano/QuizMaster/internal/quiz"

// countdownRound pays the seconds left on the clock. Wrong answers cost
// nothing but freeze the team out while the clock keeps running for others.
type countdownRound struct {
	standardRound
}

func (countdownRound) value(e *Engine) int {
	round, _, _ := e.s.currentRound()
	remaining := e.s.timerValue
	if !round.TimedValue {
		return remaining
	}
	limit := round.TimeLimitOrDefault()
	span := round.Points - round.MinPoints
	return round.MinPoints + span*remaining/limit
}

func (c countdownRound) judge(e *Engine, v Verdict) {
	q, _ := e.s.currentQuestion()
	w := e.s.buzzerWinner
	if v.accepts(q) {
		e.correct(w, c.value(e))
		return
	}
	e.lockOutAndReopen(w)
	if e.s.status == quiz.StatusAllLocked {
		e.revealLocked()
	}
}

// onTimeout leaves the question listening: at zero a correct answer is
// simply worth nothing.
func (countdownRound) onTimeout(e *Engine) {
	e.s.status = quiz.StatusListening
	e.s.buzzerLocked = false
	e.s.mediaPlaying = true
	e.cue(quiz.CueTimeout)
}

func (c countdownRound) project(e *Engine, v *RoundView) {
	round, _, _ := e.s.currentRound()
	cv := &CountdownView{TimedValue: round.TimedValue, MinPoints: round.MinPoints, MaxPoints: round.Points}
	if _, ok := e.s.currentQuestion(); ok {
		cv.CurrentValue = c.value(e)
	}
	v.Countdown = cv
}
