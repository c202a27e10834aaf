// Package quiz defines the core domain types shared by the engine and the
// persistence layer. It holds no behavior beyond the team ledger.
package quiz

import "time"

// Status is the finite state of a game session.
type Status string

const (
	StatusDashboard        Status = "DASHBOARD"
	StatusRoundReady       Status = "ROUND_READY"
	StatusIdle             Status = "IDLE"
	StatusReading          Status = "READING"
	StatusListening        Status = "LISTENING"
	StatusPaused           Status = "PAUSED"
	StatusBuzzed           Status = "BUZZED"
	StatusAnswerRevealed   Status = "ANSWER_REVEALED"
	StatusAllLocked        Status = "ALL_LOCKED"
	StatusTimeout          Status = "TIMEOUT"
	StatusRoundSummary     Status = "ROUND_SUMMARY"
	StatusFinalResults     Status = "FINAL_RESULTS"
	StatusSequenceRunning  Status = "SEQUENCE_RUNNING"
	StatusSequenceComplete Status = "SEQUENCE_COMPLETE"
)

// Format selects the round strategy.
type Format string

const (
	FormatStandard    Format = "standard"
	FormatCountdown   Format = "countdown"
	FormatFreezeOut   Format = "freezeout"
	FormatClues       Format = "clues"
	FormatSequence    Format = "sequence"
	FormatList        Format = "list"
	FormatConnections Format = "connections"
)

// Cue is a sound effect the displays should play.
type Cue string

const (
	CueBuzz    Cue = "buzz"
	CueCorrect Cue = "correct"
	CueWrong   Cue = "wrong"
	CueTimeout Cue = "timeout"
)

// Round is an authored round definition. Runtime progress lives in
// RoundProgress so the authored document never carries session state.
type Round struct {
	Name            string     `json:"name" yaml:"name"`
	Format          Format     `json:"type" yaml:"type"`
	Points          int        `json:"points" yaml:"points"`
	TimeLimit       int        `json:"time_limit" yaml:"time_limit"`
	Description     string     `json:"description" yaml:"description"`
	InitialPoints   int        `json:"initial_points,omitempty" yaml:"initial_points,omitempty"`
	ReductionAmount int        `json:"reduction_amount,omitempty" yaml:"reduction_amount,omitempty"`
	MinPoints       int        `json:"min_points,omitempty" yaml:"min_points,omitempty"`
	TimedValue      bool       `json:"timed_value,omitempty" yaml:"timed_value,omitempty"`
	Questions       []Question `json:"questions" yaml:"questions"`
}

// Question is format dependent; unused fields stay empty.
type Question struct {
	Text          string   `json:"text" yaml:"text"`
	Answer        string   `json:"answer" yaml:"answer"`
	MediaURL      string   `json:"mediaUrl,omitempty" yaml:"mediaUrl,omitempty"`
	MediaType     string   `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	Options       []string `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectOption int      `json:"correct_option,omitempty" yaml:"correct_option,omitempty"`
	Answers       []string `json:"answers,omitempty" yaml:"answers,omitempty"`
	Clues         []string `json:"clues,omitempty" yaml:"clues,omitempty"`
	Groups        []Group  `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Group is one hidden connection in a Connections grid.
type Group struct {
	Name  string   `json:"name" yaml:"name"`
	Items []string `json:"items" yaml:"items"`
}

// GridItem is a shuffled Connections cell, generated on first visit.
type GridItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	GroupIndex int    `json:"groupIndex"`
	Solved     bool   `json:"solved"`
}

// Grid is the runtime annotation of a Connections question.
type Grid struct {
	Items        []GridItem `json:"gridItems"`
	SolvedGroups []int      `json:"solvedGroups"`
}

// RoundProgress is the session-scoped runtime of a round.
type RoundProgress struct {
	QuestionsCompleted int         `json:"questionsAnswered"`
	Scores             map[int]int `json:"scores"`

	// Grids is keyed by question index and rebuilt lazily, so it is not persisted.
	Grids map[int]*Grid `json:"-"`
}

// NewRoundProgress returns zeroed progress.
func NewRoundProgress() RoundProgress {
	return RoundProgress{Scores: make(map[int]int), Grids: make(map[int]*Grid)}
}

// RoundProgressDoc is the persisted form of RoundProgress, matched back to
// a round definition by name on restore.
type RoundProgressDoc struct {
	Name               string      `json:"name"`
	QuestionsCompleted int         `json:"questionsAnswered"`
	Scores             map[int]int `json:"scores"`
}

// Snapshot is the persisted session document.
type Snapshot struct {
	Teams                []Team             `json:"teams"`
	CurrentRoundIndex    int                `json:"currentRoundIndex"`
	CurrentQuestionIndex int                `json:"currentQuestionIndex"`
	Status               Status             `json:"status"`
	TimerValue           int                `json:"timerValue"`
	BuzzerWinner         *int               `json:"buzzerWinner"`
	LockedOutTeams       []int              `json:"lockedOutTeams"`
	RoundStartScores     []int              `json:"roundStartScores"`
	Rounds               []RoundProgressDoc `json:"rounds"`
	SavedAt              time.Time          `json:"savedAt"`
}
