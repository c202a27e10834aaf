package engine

import "github.com/VincentIliano/QuizMaster/internal/quiz"

// strategy is the per-format behavior bound to the current round. A fresh
// value is created each time a round is bound, so any fields it carries are
// scoped to that visit of the round.
type strategy interface {
	// advance loads the next question, or ends the round.
	advance(e *Engine, autoStart bool)
	// setupQuestion prepares format-specific fields for question index.
	setupQuestion(e *Engine, index int)
	// judge applies a verdict. The timer is already halted.
	judge(e *Engine, v Verdict)
	// onTimeout runs when the countdown reaches zero.
	onTimeout(e *Engine)
	// project fills the format-specific part of the public state.
	project(e *Engine, v *RoundView)
}

// buzzHandler lets a format take over buzzes. When handled is false the
// default arbitration runs.
type buzzHandler interface {
	buzz(e *Engine, team int) (out BuzzOutcome, handled bool)
}

// buzzObserver is told about every accepted buzz.
type buzzObserver interface {
	buzzed(e *Engine, team int)
}

// revealer runs when the answer is revealed without a judgement.
type revealer interface {
	reveal(e *Engine)
}

// judgeGuard replaces the default "a team holds the buzzer" check on judge.
type judgeGuard interface {
	canJudge(e *Engine) bool
}

func newStrategy(f quiz.Format) strategy {
	switch f {
	case quiz.FormatCountdown, quiz.FormatFreezeOut:
		return &countdownRound{}
	case quiz.FormatClues:
		return &cluesRound{}
	case quiz.FormatSequence:
		return &sequenceRound{}
	case quiz.FormatList:
		return &listRound{}
	case quiz.FormatConnections:
		return &connectionsRound{}
	default:
		return &standardRound{}
	}
}

// accepts reports whether v marks q as answered correctly. A free-text
// verdict is matched against the reference answer.
func (v Verdict) accepts(q *quiz.Question) bool {
	if v.Answer != "" {
		return quiz.MatchAnswer([]string{q.Answer}, v.Answer) >= 0
	}
	return v.Correct
}

const reasonCorrect = "correct answer"

// correct scores the buzzer holder and closes the question.
func (e *Engine) correct(team, points int) {
	e.award(team, points, reasonCorrect)
	e.s.status = quiz.StatusAnswerRevealed
	e.s.buzzerLocked = true
	e.s.mediaPlaying = false
	e.s.lastJudgement = judgement(true)
	e.cue(quiz.CueCorrect)
}

func pointsOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// questionOpen reports whether a question is on screen and not yet closed.
func (e *Engine) questionOpen() bool {
	if _, ok := e.s.currentQuestion(); !ok {
		return false
	}
	switch e.s.status {
	case quiz.StatusReading, quiz.StatusListening, quiz.StatusPaused, quiz.StatusBuzzed,
		quiz.StatusAllLocked, quiz.StatusTimeout, quiz.StatusSequenceRunning, quiz.StatusSequenceComplete:
		return true
	}
	return false
}

type standardRound struct{}

func (standardRound) advance(e *Engine, autoStart bool) {
	if e.stepQuestion() {
		e.enter(autoStart)
	}
}

func (standardRound) setupQuestion(*Engine, int) {}

func (standardRound) judge(e *Engine, v Verdict) {
	round, _, _ := e.s.currentRound()
	q, _ := e.s.currentQuestion()
	w := e.s.buzzerWinner
	if v.accepts(q) {
		e.correct(w, round.Points)
		return
	}
	e.lockOutAndReopen(w)
}

func (standardRound) onTimeout(e *Engine) { timeout(e) }

func (standardRound) project(*Engine, *RoundView) {}
