package engine

import (
	"slices"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

const reasonListAnswer = "list answer"

// listRound collects free-text answers from a set. Teams queue up by
// buzzing; the active team keeps answering until it misses, then the turn
// passes along the queue.
type listRound struct {
	queue []int
	found []bool
}

func (l *listRound) advance(e *Engine, autoStart bool) {
	if e.stepQuestion() {
		e.enter(autoStart)
	}
}

func (l *listRound) setupQuestion(e *Engine, index int) {
	l.queue = nil
	round, _, _ := e.s.currentRound()
	l.found = make([]bool, len(round.Questions[index].Answers))
}

func (l *listRound) buzz(e *Engine, team int) (BuzzOutcome, bool) {
	if e.s.status != quiz.StatusListening && e.s.status != quiz.StatusBuzzed {
		return "", false
	}
	if e.s.isLockedOut(team) || slices.Contains(l.queue, team) {
		return BuzzIgnored, true
	}
	l.queue = append(l.queue, team)
	if e.s.buzzerWinner != noTeam {
		return BuzzQueued, true
	}
	e.timer.halt()
	e.s.buzzerWinner = team
	e.s.status = quiz.StatusBuzzed
	e.s.mediaPlaying = false
	e.cue(quiz.CueBuzz)
	return BuzzAccepted, true
}

func (l *listRound) judge(e *Engine, v Verdict) {
	round, _, _ := e.s.currentRound()
	q, _ := e.s.currentQuestion()
	w := e.s.buzzerWinner

	hit := v.Correct && v.Answer == ""
	if v.Answer != "" {
		if i := quiz.MatchAnswer(q.Answers, v.Answer); i >= 0 && !l.found[i] {
			l.found[i] = true
			hit = true
		}
	}
	if hit {
		e.award(w, round.Points, reasonListAnswer)
		e.s.lastJudgement = judgement(true)
		e.cue(quiz.CueCorrect)
		if len(l.found) > 0 && !slices.Contains(l.found, false) {
			e.revealLocked()
		}
		return
	}

	e.s.lockOut(w)
	e.s.lastJudgement = judgement(false)
	e.cue(quiz.CueWrong)
	if next, ok := l.next(e, w); ok {
		e.s.buzzerWinner = next
		return
	}
	e.s.buzzerWinner = noTeam
	if e.s.allLockedOut() {
		e.s.status = quiz.StatusAllLocked
		e.s.buzzerLocked = true
		return
	}
	e.reopen()
}

// next finds the first queued team after from, wrapping around, that is
// still allowed to answer.
func (l *listRound) next(e *Engine, from int) (int, bool) {
	start := slices.Index(l.queue, from)
	for i := 1; i <= len(l.queue); i++ {
		t := l.queue[(start+i)%len(l.queue)]
		if !e.s.isLockedOut(t) {
			return t, true
		}
	}
	return noTeam, false
}

func (l *listRound) onTimeout(e *Engine) { timeout(e) }

func (l *listRound) project(e *Engine, v *RoundView) {
	lv := &ListView{Queue: slices.Clone(l.queue), Found: []string{}}
	if lv.Queue == nil {
		lv.Queue = []int{}
	}
	if q, ok := e.s.currentQuestion(); ok {
		lv.Total = len(q.Answers)
		for i, f := range l.found {
			if f && i < len(q.Answers) {
				lv.Found = append(lv.Found, q.Answers[i])
			}
		}
	}
	v.List = lv
}
