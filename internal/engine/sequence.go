package engine

import "github.com/VincentIliano/QuizMaster/internal/quiz"

const defaultSequencePoints = 10

// sequenceRound steps through a question's options; a buzz while an option
// is highlighted is a vote for it. Judging sweeps every vote at once.
type sequenceRound struct {
	option int
	votes  map[int]int
	swept  bool
}

func (s *sequenceRound) advance(e *Engine, _ bool) {
	e.stepQuestion()
}

func (s *sequenceRound) setupQuestion(*Engine, int) {
	s.option = -1
	s.votes = make(map[int]int)
	s.swept = false
}

func (s *sequenceRound) buzz(e *Engine, team int) (BuzzOutcome, bool) {
	if e.s.status != quiz.StatusSequenceRunning {
		return "", false
	}
	if _, voted := s.votes[team]; voted {
		return BuzzIgnored, true
	}
	s.votes[team] = s.option
	if len(s.votes) >= len(e.s.teams) {
		e.s.status = quiz.StatusSequenceComplete
		e.s.buzzerLocked = true
	}
	return BuzzVoted, true
}

func (s *sequenceRound) canJudge(e *Engine) bool {
	return e.s.status == quiz.StatusSequenceRunning || e.s.status == quiz.StatusSequenceComplete
}

func (s *sequenceRound) judge(e *Engine, _ Verdict) {
	e.revealLocked()
}

func (s *sequenceRound) reveal(e *Engine) {
	if s.swept {
		return
	}
	s.swept = true
	round, _, _ := e.s.currentRound()
	q, _ := e.s.currentQuestion()
	points := pointsOr(round.Points, defaultSequencePoints)

	hit := false
	for t := range e.s.teams {
		if vote, ok := s.votes[t]; ok && vote == q.CorrectOption {
			e.award(t, points, reasonCorrect)
			hit = true
		}
	}
	e.s.lastJudgement = judgement(hit)
	if hit {
		e.cue(quiz.CueCorrect)
	} else {
		e.cue(quiz.CueWrong)
	}
}

func (s *sequenceRound) onTimeout(e *Engine) { timeout(e) }

func (s *sequenceRound) project(e *Engine, v *RoundView) {
	sv := &SequenceView{OptionIndex: s.option, Options: []string{}, Votes: make(map[int]int, len(s.votes))}
	if q, ok := e.s.currentQuestion(); ok {
		sv.Options = append(sv.Options, q.Options...)
		sv.Tally = make([]int, len(q.Options))
		for _, o := range s.votes {
			if o >= 0 && o < len(sv.Tally) {
				sv.Tally[o]++
			}
		}
	}
	for t, o := range s.votes {
		sv.Votes[t] = o
	}
	v.Sequence = sv
}

// AdvanceOption highlights the next option of a Sequence question. Passing
// the last option closes voting.
func (e *Engine) AdvanceOption() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.strategy.(*sequenceRound)
	if !ok {
		return
	}
	if e.s.status != quiz.StatusReading && e.s.status != quiz.StatusSequenceRunning {
		return
	}
	q, ok := e.s.currentQuestion()
	if !ok {
		return
	}
	if s.option+1 >= len(q.Options) {
		e.s.status = quiz.StatusSequenceComplete
		e.s.buzzerLocked = true
		e.commit()
		return
	}
	s.option++
	e.s.status = quiz.StatusSequenceRunning
	e.s.buzzerLocked = false
	e.commit()
}
