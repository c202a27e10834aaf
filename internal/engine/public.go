package engine

import (
	"slices"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

// PublicState is the projection broadcast to every viewer after each change.
type PublicState struct {
	Status           quiz.Status   `json:"status"`
	RoundIndex       int           `json:"currentRoundIndex"`
	QuestionIndex    int           `json:"currentQuestionIndex"`
	TotalQuestions   int           `json:"totalQuestions"`
	RoundName        string        `json:"roundName,omitempty"`
	RoundFormat      quiz.Format   `json:"roundType,omitempty"`
	RoundDescription string        `json:"roundDescription,omitempty"`
	Points           int           `json:"points"`
	MaxTime          int           `json:"maxTime"`
	Question         *QuestionView `json:"question,omitempty"`
	Answer           string        `json:"answer,omitempty"`
	UpcomingQuestion string        `json:"upcomingQuestion,omitempty"`
	UpcomingAnswer   string        `json:"upcomingAnswer,omitempty"`

	TimerValue     int         `json:"timerValue"`
	Teams          []quiz.Team `json:"teams"`
	BuzzerWinner   *int        `json:"buzzerWinner"`
	BuzzerLocked   bool        `json:"buzzerLocked"`
	LockedOutTeams []int       `json:"lockedOutTeams"`
	LastJudgement  *bool       `json:"lastJudgement"`
	MediaPlaying   bool        `json:"mediaPlaying"`

	Rounds              []RoundSummary `json:"roundsSummary"`
	RoundStartScores    []int          `json:"roundStartScores"`
	FinalStandings      []Standing     `json:"finalStandings,omitempty"`
	FinalistRevealCount int            `json:"finalistRevealCount"`

	Round *RoundView `json:"round,omitempty"`
}

// QuestionView is the on-screen part of a question.
type QuestionView struct {
	Text      string   `json:"text"`
	MediaURL  string   `json:"mediaUrl,omitempty"`
	MediaType string   `json:"mediaType,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// RoundSummary is one row of the per-round progress table.
type RoundSummary struct {
	Name               string      `json:"name"`
	Format             quiz.Format `json:"type"`
	QuestionCount      int         `json:"questionCount"`
	QuestionsCompleted int         `json:"questionsAnswered"`
	Scores             map[int]int `json:"scores"`
}

// RoundView carries the fields of the bound format. Exactly one of the
// pointers is set, matching Format.
type RoundView struct {
	Format      quiz.Format      `json:"format"`
	Countdown   *CountdownView   `json:"countdown,omitempty"`
	Clues       *CluesView       `json:"clues,omitempty"`
	Sequence    *SequenceView    `json:"sequence,omitempty"`
	List        *ListView        `json:"list,omitempty"`
	Connections *ConnectionsView `json:"connections,omitempty"`
}

type CountdownView struct {
	TimedValue   bool `json:"timedValue"`
	MinPoints    int  `json:"minPoints"`
	MaxPoints    int  `json:"maxPoints"`
	CurrentValue int  `json:"currentValue"`
}

type CluesView struct {
	Clues           []string `json:"clues"`
	Revealed        int      `json:"revealed"`
	Total           int      `json:"total"`
	PointsAvailable int      `json:"pointsAvailable"`
}

type SequenceView struct {
	Options     []string    `json:"options"`
	OptionIndex int         `json:"optionIndex"`
	Votes       map[int]int `json:"votes"`
	Tally       []int       `json:"tally"`
}

type ListView struct {
	Found []string `json:"found"`
	Total int      `json:"total"`
	Queue []int    `json:"queue"`
}

// ConnectionsView hides the group of every unsolved item.
type ConnectionsView struct {
	Items        []quiz.GridItem `json:"gridItems"`
	SolvedGroups []int           `json:"solvedGroups"`
	Groups       []string        `json:"groups"`
	Streak       int             `json:"streak"`
}

func (e *Engine) project() PublicState {
	s := &e.s
	ps := PublicState{
		Status:              s.status,
		RoundIndex:          s.roundIndex,
		QuestionIndex:       s.questionIndex,
		TimerValue:          s.timerValue,
		Teams:               cloneTeams(s.teams),
		BuzzerLocked:        s.buzzerLocked,
		LockedOutTeams:      slices.Clone(s.lockedOut),
		MediaPlaying:        s.mediaPlaying,
		Rounds:              make([]RoundSummary, len(s.rounds)),
		RoundStartScores:    slices.Clone(s.roundStartScores),
		FinalStandings:      slices.Clone(s.finalStandings),
		FinalistRevealCount: s.finalistRevealCount,
	}
	if ps.LockedOutTeams == nil {
		ps.LockedOutTeams = []int{}
	}
	if ps.RoundStartScores == nil {
		ps.RoundStartScores = []int{}
	}
	if s.buzzerWinner != noTeam {
		w := s.buzzerWinner
		ps.BuzzerWinner = &w
	}
	if s.lastJudgement != nil {
		ps.LastJudgement = judgement(*s.lastJudgement)
	}
	for i, r := range s.rounds {
		ps.Rounds[i] = RoundSummary{
			Name:               r.Name,
			Format:             r.Format,
			QuestionCount:      len(r.Questions),
			QuestionsCompleted: s.progress[i].QuestionsCompleted,
			Scores:             cloneScores(s.progress[i].Scores),
		}
	}

	round, _, ok := s.currentRound()
	if !ok || e.strategy == nil || s.status == quiz.StatusDashboard {
		return ps
	}
	ps.TotalQuestions = len(round.Questions)
	ps.RoundName = round.Name
	ps.RoundFormat = round.Format
	ps.RoundDescription = round.Description
	ps.Points = round.Points
	ps.MaxTime = round.TimeLimitOrDefault()

	if q, ok := s.currentQuestion(); ok && s.status != quiz.StatusRoundReady && s.status != quiz.StatusIdle {
		ps.Question = &QuestionView{Text: q.Text, MediaURL: q.MediaURL, MediaType: q.MediaType, Options: slices.Clone(q.Options)}
		if s.status == quiz.StatusAnswerRevealed {
			ps.Answer = q.Answer
		}
	}
	if next := s.questionIndex + 1; next >= 0 && next < len(round.Questions) {
		ps.UpcomingQuestion = round.Questions[next].Text
		ps.UpcomingAnswer = round.Questions[next].Answer
	}

	view := &RoundView{Format: round.Format}
	e.strategy.project(e, view)
	ps.Round = view
	return ps
}
