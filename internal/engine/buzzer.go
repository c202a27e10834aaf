package engine

import "github.com/VincentIliano/QuizMaster/internal/quiz"

// BuzzOutcome reports what happened to a buzz.
type BuzzOutcome string

const (
	BuzzAccepted   BuzzOutcome = "accepted"
	BuzzIgnored    BuzzOutcome = "ignored"
	BuzzFalseStart BuzzOutcome = "false_start"
	BuzzQueued     BuzzOutcome = "queued"
	BuzzVoted      BuzzOutcome = "voted"
)

// ReasonFalseStart is recorded for false-start penalties.
const ReasonFalseStart = "false start"

// Buzz arbitrates a buzz from team. Only a team that is not locked out can
// take the buzzer, and only while LISTENING.
func (e *Engine) Buzz(team int) BuzzOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.s.validTeam(team) {
		e.ignore("buzz", "team out of range", "team", team)
		return BuzzIgnored
	}

	// ROUND_READY and FINAL_RESULTS are quiet too: no question is on
	// screen, so a buzz there is noise rather than a false start.
	switch e.s.status {
	case quiz.StatusDashboard, quiz.StatusRoundReady, quiz.StatusIdle,
		quiz.StatusRoundSummary, quiz.StatusFinalResults:
		return BuzzIgnored
	}

	if h, ok := e.strategy.(buzzHandler); ok {
		if out, handled := h.buzz(e, team); handled {
			if out != BuzzIgnored {
				e.commit()
			}
			return out
		}
	}

	if e.s.status == quiz.StatusListening {
		if e.s.isLockedOut(team) {
			return BuzzIgnored
		}
		e.timer.halt()
		e.s.buzzerWinner = team
		e.s.buzzerLocked = true
		e.s.status = quiz.StatusBuzzed
		e.s.mediaPlaying = false
		if o, ok := e.strategy.(buzzObserver); ok {
			o.buzzed(e, team)
		}
		e.cue(quiz.CueBuzz)
		e.commit()
		return BuzzAccepted
	}

	return e.falseStart(team)
}

func (e *Engine) falseStart(team int) BuzzOutcome {
	if e.penalty != 0 {
		e.award(team, -e.penalty, ReasonFalseStart)
		e.cue(quiz.CueWrong)
		e.commit()
	}
	return BuzzFalseStart
}

// lockOutAndReopen bars team from the current question and gives the buzzer
// back to the others, or stalls the question when nobody is left.
func (e *Engine) lockOutAndReopen(team int) {
	e.s.lockOut(team)
	e.s.buzzerWinner = noTeam
	e.s.lastJudgement = judgement(false)
	e.cue(quiz.CueWrong)

	if e.s.allLockedOut() {
		e.timer.halt()
		e.s.status = quiz.StatusAllLocked
		e.s.buzzerLocked = true
		e.s.mediaPlaying = false
		return
	}
	e.reopen()
}

// UnfreezeTeam lifts a lockout. A stalled question reopens for that team.
func (e *Engine) UnfreezeTeam(team int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.s.validTeam(team) {
		e.ignore("unfreeze_team", "team out of range", "team", team)
		return
	}
	if !e.s.isLockedOut(team) {
		return
	}
	out := e.s.lockedOut[:0]
	for _, t := range e.s.lockedOut {
		if t != team {
			out = append(out, t)
		}
	}
	e.s.lockedOut = out
	if e.s.status == quiz.StatusAllLocked {
		e.reopen()
	}
	e.commit()
}
