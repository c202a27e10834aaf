package quiz

import "time"

// ReasonManualAdjustment is recorded for score edits made by the moderator.
const ReasonManualAdjustment = "manual adjustment"

// ScoreEvent is one immutable ledger entry.
type ScoreEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	Amount         int       `json:"amount"`
	Reason         string    `json:"reason"`
	ResultingScore int       `json:"newScore"`
	RoundName      string    `json:"round"`
}

// Team is a competing team. Score is only ever changed through AddPoints so
// that it always equals the sum of History amounts.
type Team struct {
	Name    string       `json:"name"`
	Score   int          `json:"score"`
	History []ScoreEvent `json:"history"`
}

// NewTeams builds a fresh roster, skipping blank names.
func NewTeams(names []string) []Team {
	teams := make([]Team, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		teams = append(teams, Team{Name: n, History: []ScoreEvent{}})
	}
	return teams
}

// AddPoints appends a ledger entry and updates the score together.
func (t *Team) AddPoints(at time.Time, amount int, reason, roundName string) ScoreEvent {
	t.Score += amount
	ev := ScoreEvent{
		Timestamp:      at,
		Amount:         amount,
		Reason:         reason,
		ResultingScore: t.Score,
		RoundName:      roundName,
	}
	t.History = append(t.History, ev)
	return ev
}

// HistoryTotal sums the ledger. It equals Score for any team built through AddPoints.
func (t Team) HistoryTotal() int {
	total := 0
	for _, ev := range t.History {
		total += ev.Amount
	}
	return total
}
