package engine

import "github.com/VincentIliano/QuizMaster/internal/quiz"

const (
	defaultInitialPoints = 15
	defaultReduction     = 3
)

// cluesRound reveals clues one at a time; every clue shown before the
// correct answer (after the first) costs a fixed step.
type cluesRound struct {
	standardRound
	revealed int
}

func (c *cluesRound) setupQuestion(*Engine, int) { c.revealed = 0 }

func (c *cluesRound) value(e *Engine) int {
	round, _, _ := e.s.currentRound()
	initial := pointsOr(round.InitialPoints, defaultInitialPoints)
	step := pointsOr(round.ReductionAmount, defaultReduction)
	pts := initial - (max(1, c.revealed)-1)*step
	return max(pts, max(round.MinPoints, 1))
}

func (c *cluesRound) judge(e *Engine, v Verdict) {
	q, _ := e.s.currentQuestion()
	w := e.s.buzzerWinner
	if v.accepts(q) {
		points := c.value(e)
		c.reveal(e)
		e.correct(w, points)
		return
	}
	e.lockOutAndReopen(w)
}

func (c *cluesRound) reveal(e *Engine) {
	if q, ok := e.s.currentQuestion(); ok {
		c.revealed = max(c.revealed, len(q.Clues))
	}
}

func (c *cluesRound) project(e *Engine, v *RoundView) {
	cv := &CluesView{Revealed: c.revealed, Clues: []string{}}
	if q, ok := e.s.currentQuestion(); ok {
		cv.Total = len(q.Clues)
		cv.Clues = append(cv.Clues, q.Clues[:min(c.revealed, len(q.Clues))]...)
		cv.PointsAvailable = c.value(e)
	}
	v.Clues = cv
}

// RevealClue shows the next clue of a Clues question.
func (e *Engine) RevealClue() {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.strategy.(*cluesRound)
	if !ok || !e.questionOpen() {
		return
	}
	q, _ := e.s.currentQuestion()
	if c.revealed >= len(q.Clues) {
		return
	}
	c.revealed++
	e.commit()
}

// RevealTopic reveals a Clues answer. A team holding the buzzer is scored as
// if judged correct.
func (e *Engine) RevealTopic() {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.strategy.(*cluesRound)
	if !ok || !e.questionOpen() {
		return
	}
	e.timer.halt()
	if w := e.s.buzzerWinner; e.s.status == quiz.StatusBuzzed && e.s.validTeam(w) {
		points := c.value(e)
		c.reveal(e)
		e.correct(w, points)
	} else {
		e.revealLocked()
	}
	e.commit()
}
