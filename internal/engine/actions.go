package engine

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

// Verdict is the moderator's judgement: a plain correct/wrong flag, or a
// free-text answer for formats that match answers themselves.
type Verdict struct {
	Correct bool
	Answer  string
}

// Correct returns a correct verdict.
func Correct() Verdict { return Verdict{Correct: true} }

// Wrong returns a wrong verdict.
func Wrong() Verdict { return Verdict{} }

// Answer returns a free-text verdict.
func Answer(s string) Verdict { return Verdict{Answer: s} }

// Standing is one row of the final ranking.
type Standing struct {
	Name          string `json:"name"`
	Score         int    `json:"score"`
	OriginalIndex int    `json:"originalIndex"`
}

// AssignTeams replaces the roster. Scores, histories and per-round progress
// start from zero.
func (e *Engine) AssignTeams(names []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetTransient()
	e.unbind()
	e.s.teams = quiz.NewTeams(names)
	for i := range e.s.progress {
		e.s.progress[i] = quiz.NewRoundProgress()
	}
	e.s.roundStartScores = nil
	e.s.finalStandings = nil
	e.s.finalistRevealCount = 0
	e.s.timerValue = 0
	e.s.status = quiz.StatusDashboard
	e.commit()
}

// SelectRound binds the round's strategy and shows it as ready.
func (e *Engine) SelectRound(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.s.validRound(index) {
		e.ignore("select_round", "round out of range", "round", index)
		return
	}
	if e.s.status == quiz.StatusFinalResults {
		return
	}

	e.resetTransient()
	e.bind(index)
	e.s.questionIndex = e.s.progress[index].QuestionsCompleted - 1
	e.s.roundStartScores = e.s.scores()
	e.s.status = quiz.StatusRoundReady
	e.logger.Debug("round selected", "round", e.s.rounds[index].Name, "format", e.s.rounds[index].Format)
	e.commit()
}

// AdvanceQuestion moves ROUND_READY to IDLE, then through the questions,
// ending in ROUND_SUMMARY after the last one.
func (e *Engine) AdvanceQuestion(autoStart bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.strategy == nil {
		return
	}
	switch e.s.status {
	case quiz.StatusDashboard, quiz.StatusRoundSummary, quiz.StatusFinalResults:
		return
	}

	e.resetTransient()
	if e.s.status == quiz.StatusRoundReady {
		_, prog, _ := e.s.currentRound()
		e.s.questionIndex = prog.QuestionsCompleted - 1
		e.s.status = quiz.StatusIdle
		e.commit()
		return
	}

	e.strategy.advance(e, autoStart)
	e.commit()
}

// stepQuestion moves to the next question, or to ROUND_SUMMARY when the
// round is exhausted. It reports whether a question was loaded.
func (e *Engine) stepQuestion() bool {
	round, prog, _ := e.s.currentRound()
	next := e.s.questionIndex + 1
	if next >= len(round.Questions) {
		prog.QuestionsCompleted = len(round.Questions)
		e.s.status = quiz.StatusRoundSummary
		return false
	}
	prog.QuestionsCompleted = next
	e.loadQuestion(next)
	return true
}

func (e *Engine) loadQuestion(index int) {
	round, _, _ := e.s.currentRound()
	e.s.questionIndex = index
	e.s.timerValue = round.TimeLimitOrDefault()
	e.s.status = quiz.StatusReading
	e.strategy.setupQuestion(e, index)
}

// enter leaves a freshly loaded question in READING, or starts listening
// right away when asked to.
func (e *Engine) enter(autoStart bool) {
	e.s.status = quiz.StatusReading
	if autoStart {
		e.listen()
	}
}

// RewindQuestion steps back one question without touching scores.
func (e *Engine) RewindQuestion() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.strategy == nil {
		return
	}
	switch e.s.status {
	case quiz.StatusDashboard, quiz.StatusRoundReady, quiz.StatusFinalResults:
		return
	}

	e.resetTransient()
	prev := e.s.questionIndex - 1
	if prev < 0 {
		e.s.questionIndex = -1
		e.s.status = quiz.StatusRoundReady
		e.commit()
		return
	}
	e.loadQuestion(prev)
	e.commit()
}

// Judge delegates the moderator's verdict on the current answer to the
// round strategy.
func (e *Engine) Judge(v Verdict) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.strategy == nil {
		return
	}
	if g, ok := e.strategy.(judgeGuard); ok {
		if !g.canJudge(e) {
			return
		}
	} else if e.s.status != quiz.StatusBuzzed || !e.s.validTeam(e.s.buzzerWinner) {
		return
	}

	e.timer.halt()
	e.strategy.judge(e, v)
	e.commit()
}

// RevealAnswer shows the answer without judging anyone. Revealing twice is
// a no-op.
func (e *Engine) RevealAnswer() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.strategy == nil || e.s.questionIndex < 0 {
		return
	}
	switch e.s.status {
	case quiz.StatusAnswerRevealed, quiz.StatusDashboard, quiz.StatusRoundReady,
		quiz.StatusIdle, quiz.StatusRoundSummary, quiz.StatusFinalResults:
		return
	}
	e.revealLocked()
	e.commit()
}

func (e *Engine) revealLocked() {
	e.timer.halt()
	if r, ok := e.strategy.(revealer); ok {
		r.reveal(e)
	}
	e.s.status = quiz.StatusAnswerRevealed
	e.s.buzzerLocked = true
	e.s.mediaPlaying = false
}

// AdjustScore sets a team's score, logging the difference as a manual
// ledger entry.
func (e *Engine) AdjustScore(team, score int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.s.validTeam(team) {
		e.ignore("adjust_score", "team out of range", "team", team)
		return
	}
	delta := score - e.s.teams[team].Score
	if delta == 0 {
		return
	}
	name := ""
	if round, _, ok := e.s.currentRound(); ok {
		name = round.Name
	}
	e.s.teams[team].AddPoints(e.clock.Now(), delta, quiz.ReasonManualAdjustment, name)
	e.commit()
}

// ToggleMedia flips the media playback flag shown on the displays.
func (e *Engine) ToggleMedia() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.s.mediaPlaying = !e.s.mediaPlaying
	e.commit()
}

// EndRoundEarly jumps straight to the round summary.
func (e *Engine) EndRoundEarly() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.strategy == nil {
		return
	}
	switch e.s.status {
	case quiz.StatusDashboard, quiz.StatusRoundSummary, quiz.StatusFinalResults:
		return
	}
	e.resetTransient()
	e.s.status = quiz.StatusRoundSummary
	e.commit()
}

// FinishRound leaves the round summary for the dashboard.
func (e *Engine) FinishRound() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.status != quiz.StatusRoundSummary {
		return
	}
	e.toDashboard()
}

// ReturnToDashboard abandons whatever is on screen, keeping teams and rounds.
func (e *Engine) ReturnToDashboard() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.status == quiz.StatusFinalResults {
		return
	}
	e.toDashboard()
}

func (e *Engine) toDashboard() {
	e.resetTransient()
	e.unbind()
	e.s.status = quiz.StatusDashboard
	e.commit()
}

// ResetRound reverses the round's recorded score deltas and clears its
// progress and grid annotations.
func (e *Engine) ResetRound(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.s.validRound(index) {
		e.ignore("reset_round", "round out of range", "round", index)
		return
	}

	round := e.s.rounds[index]
	scores := e.s.progress[index].Scores
	teams := make([]int, 0, len(scores))
	for t := range scores {
		teams = append(teams, t)
	}
	slices.Sort(teams)
	for _, t := range teams {
		if amount := scores[t]; amount != 0 && e.s.validTeam(t) {
			e.s.teams[t].AddPoints(e.clock.Now(), -amount, fmt.Sprintf("round reset: %s", round.Name), round.Name)
		}
	}
	e.s.progress[index] = quiz.NewRoundProgress()

	if index == e.s.roundIndex && e.strategy != nil {
		e.strategy = newStrategy(round.Format)
		if _, ok := e.s.currentQuestion(); ok {
			e.strategy.setupQuestion(e, e.s.questionIndex)
		}
	}
	e.logger.Info("round reset", "round", round.Name)
	e.commit()
}

// GoToFinalResults ranks the teams by ascending score for an incremental
// reveal, lowest first.
func (e *Engine) GoToFinalResults() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.status != quiz.StatusDashboard {
		return
	}
	standings := make([]Standing, len(e.s.teams))
	for i, t := range e.s.teams {
		standings[i] = Standing{Name: t.Name, Score: t.Score, OriginalIndex: i}
	}
	sort.SliceStable(standings, func(i, j int) bool { return standings[i].Score < standings[j].Score })

	e.s.finalStandings = standings
	e.s.finalistRevealCount = 0
	e.s.status = quiz.StatusFinalResults
	e.commit()
}

// RevealNextFinalist shows one more team of the final ranking.
func (e *Engine) RevealNextFinalist() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.status != quiz.StatusFinalResults || e.s.finalistRevealCount >= len(e.s.finalStandings) {
		return
	}
	e.s.finalistRevealCount++
	e.commit()
}

// UpdateRoundContent replaces the authored rounds, in memory and in the
// store. Progress is kept for rounds whose name did not change. A failed
// write is logged; the in-memory content is updated regardless.
func (e *Engine) UpdateRoundContent(ctx context.Context, rounds []quiz.Round) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rounds == nil {
		return
	}

	old := make(map[string]quiz.RoundProgress, len(e.s.rounds))
	for i, r := range e.s.rounds {
		old[r.Name] = e.s.progress[i]
	}
	var boundName string
	var boundFormat quiz.Format
	if round, _, ok := e.s.currentRound(); ok {
		boundName, boundFormat = round.Name, round.Format
	}

	e.s.setRounds(rounds)
	for i, r := range e.s.rounds {
		if p, ok := old[r.Name]; ok {
			p.QuestionsCompleted = min(p.QuestionsCompleted, len(r.Questions))
			p.Grids = make(map[int]*quiz.Grid)
			e.s.progress[i] = p
		}
	}

	if err := e.store.SaveRounds(ctx, cloneRounds(e.s.rounds)); err != nil {
		e.logger.Error("saving round definitions", "error", err)
	}

	if e.strategy != nil {
		switch {
		case !e.s.validRound(e.s.roundIndex) || e.s.rounds[e.s.roundIndex].Name != boundName:
			e.resetTransient()
			e.unbind()
			e.s.status = quiz.StatusDashboard
		default:
			if e.s.rounds[e.s.roundIndex].Format != boundFormat {
				e.strategy = newStrategy(e.s.rounds[e.s.roundIndex].Format)
			}
			e.s.clampQuestion()
			if _, ok := e.s.currentQuestion(); ok {
				e.strategy.setupQuestion(e, e.s.questionIndex)
			}
		}
	}
	e.commit()
}
