package engine

import (
	"slices"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

// session is the root aggregate. All fields are guarded by Engine.mu.
type session struct {
	teams    []quiz.Team
	rounds   []quiz.Round
	progress []quiz.RoundProgress

	roundIndex    int
	questionIndex int
	status        quiz.Status
	timerValue    int

	buzzerWinner  int
	buzzerLocked  bool
	lockedOut     []int
	lastJudgement *bool
	mediaPlaying  bool

	roundStartScores []int

	finalStandings      []Standing
	finalistRevealCount int
}

func newSession() session {
	return session{
		teams:         []quiz.Team{},
		roundIndex:    -1,
		questionIndex: -1,
		status:        quiz.StatusDashboard,
		buzzerWinner:  noTeam,
		buzzerLocked:  true,
	}
}

func (s *session) setRounds(rounds []quiz.Round) {
	s.rounds = cloneRounds(rounds)
	s.progress = make([]quiz.RoundProgress, len(s.rounds))
	for i := range s.progress {
		s.progress[i] = quiz.NewRoundProgress()
	}
}

func (s *session) validTeam(i int) bool  { return i >= 0 && i < len(s.teams) }
func (s *session) validRound(i int) bool { return i >= 0 && i < len(s.rounds) }

func (s *session) currentRound() (*quiz.Round, *quiz.RoundProgress, bool) {
	if !s.validRound(s.roundIndex) {
		return nil, nil, false
	}
	return &s.rounds[s.roundIndex], &s.progress[s.roundIndex], true
}

func (s *session) currentQuestion() (*quiz.Question, bool) {
	round, _, ok := s.currentRound()
	if !ok || s.questionIndex < 0 || s.questionIndex >= len(round.Questions) {
		return nil, false
	}
	return &round.Questions[s.questionIndex], true
}

// clampQuestion keeps questionIndex inside the bound round.
func (s *session) clampQuestion() {
	round, _, ok := s.currentRound()
	if !ok {
		return
	}
	s.questionIndex = min(max(s.questionIndex, -1), len(round.Questions)-1)
}

func (s *session) isLockedOut(team int) bool {
	return slices.Contains(s.lockedOut, team)
}

func (s *session) lockOut(team int) {
	if !s.isLockedOut(team) {
		s.lockedOut = append(s.lockedOut, team)
	}
}

func (s *session) allLockedOut() bool {
	for i := range s.teams {
		if !s.isLockedOut(i) {
			return false
		}
	}
	return true
}

func (s *session) scores() []int {
	out := make([]int, len(s.teams))
	for i, t := range s.teams {
		out[i] = t.Score
	}
	return out
}

func cloneTeams(teams []quiz.Team) []quiz.Team {
	out := make([]quiz.Team, len(teams))
	for i, t := range teams {
		out[i] = t
		out[i].History = slices.Clone(t.History)
		if out[i].History == nil {
			out[i].History = []quiz.ScoreEvent{}
		}
	}
	return out
}

func cloneRounds(rounds []quiz.Round) []quiz.Round {
	out := make([]quiz.Round, len(rounds))
	for i, r := range rounds {
		out[i] = r
		out[i].Questions = make([]quiz.Question, len(r.Questions))
		for j, q := range r.Questions {
			out[i].Questions[j] = q
			out[i].Questions[j].Options = slices.Clone(q.Options)
			out[i].Questions[j].Answers = slices.Clone(q.Answers)
			out[i].Questions[j].Clues = slices.Clone(q.Clues)
			groups := make([]quiz.Group, len(q.Groups))
			for k, g := range q.Groups {
				groups[k] = quiz.Group{Name: g.Name, Items: slices.Clone(g.Items)}
			}
			out[i].Questions[j].Groups = groups
		}
	}
	return out
}

func cloneScores(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// snapshot builds the persisted document. Grid annotations are left out
// and regenerated on the next visit.
func (e *Engine) snapshot() quiz.Snapshot {
	s := &e.s
	snap := quiz.Snapshot{
		Teams:                cloneTeams(s.teams),
		CurrentRoundIndex:    s.roundIndex,
		CurrentQuestionIndex: s.questionIndex,
		Status:               s.status,
		TimerValue:           s.timerValue,
		LockedOutTeams:       slices.Clone(s.lockedOut),
		RoundStartScores:     slices.Clone(s.roundStartScores),
		Rounds:               make([]quiz.RoundProgressDoc, len(s.rounds)),
		SavedAt:              e.clock.Now().UTC(),
	}
	if snap.LockedOutTeams == nil {
		snap.LockedOutTeams = []int{}
	}
	if s.buzzerWinner != noTeam {
		w := s.buzzerWinner
		snap.BuzzerWinner = &w
	}
	for i, r := range s.rounds {
		snap.Rounds[i] = quiz.RoundProgressDoc{
			Name:               r.Name,
			QuestionsCompleted: s.progress[i].QuestionsCompleted,
			Scores:             cloneScores(s.progress[i].Scores),
		}
	}
	return snap
}

// restore applies a snapshot on top of freshly loaded round definitions.
// Progress is matched to rounds by name and the status always comes back
// as DASHBOARD.
func (e *Engine) restore(snap quiz.Snapshot) {
	s := &e.s
	if snap.Teams != nil {
		s.teams = cloneTeams(snap.Teams)
	}

	byName := make(map[string]quiz.RoundProgressDoc, len(snap.Rounds))
	for _, p := range snap.Rounds {
		byName[p.Name] = p
	}
	for i, r := range s.rounds {
		p, ok := byName[r.Name]
		if !ok {
			continue
		}
		s.progress[i].QuestionsCompleted = min(max(p.QuestionsCompleted, 0), len(r.Questions))
		if p.Scores != nil {
			s.progress[i].Scores = cloneScores(p.Scores)
		}
	}

	for _, t := range snap.LockedOutTeams {
		if s.validTeam(t) {
			s.lockOut(t)
		}
	}
	if w := snap.BuzzerWinner; w != nil && s.validTeam(*w) && !s.isLockedOut(*w) {
		s.buzzerWinner = *w
	}
	s.roundStartScores = slices.Clone(snap.RoundStartScores)
	s.timerValue = max(snap.TimerValue, 0)

	if s.validRound(snap.CurrentRoundIndex) {
		e.bind(snap.CurrentRoundIndex)
		s.questionIndex = snap.CurrentQuestionIndex
		s.clampQuestion()
	}
	s.status = quiz.StatusDashboard
}
