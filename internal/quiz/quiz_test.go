package quiz_test

import (
	"testing"
	"time"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

func TestAddPointsKeepsHistoryTotal(t *testing.T) {
	team := quiz.NewTeams([]string{"Owls"})[0]
	now := time.Now()

	deltas := []int{10, -3, 0, 25, -40}
	for _, d := range deltas {
		team.AddPoints(now, d, "test", "Round 1")
	}

	if team.Score != -8 {
		t.Errorf("score = %d, want -8", team.Score)
	}
	if got := team.HistoryTotal(); got != team.Score {
		t.Errorf("history total = %d, want %d", got, team.Score)
	}
	if len(team.History) != len(deltas) {
		t.Fatalf("history length = %d, want %d", len(team.History), len(deltas))
	}
	if last := team.History[len(team.History)-1]; last.ResultingScore != -8 || last.RoundName != "Round 1" {
		t.Errorf("last event = %+v", last)
	}
}

func TestNewTeamsSkipsBlankNames(t *testing.T) {
	teams := quiz.NewTeams([]string{"A", "", "B"})
	if len(teams) != 2 {
		t.Fatalf("len = %d, want 2", len(teams))
	}
	if teams[1].Name != "B" {
		t.Errorf("second team = %q, want B", teams[1].Name)
	}
}

func TestMatchAnswer(t *testing.T) {
	accepted := []string{"Mercury", "Venus", "Straße"}

	tests := []struct {
		in   string
		want int
	}{
		{"mercury", 0},
		{"  VENUS ", 1},
		{"STRASSE", 2},
		{"mars", -1},
		{"", -1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := quiz.MatchAnswer(accepted, tt.in); got != tt.want {
				t.Errorf("MatchAnswer(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeLimitOrDefault(t *testing.T) {
	tests := []struct {
		name  string
		round quiz.Round
		want  int
	}{
		{"explicit", quiz.Round{TimeLimit: 12}, 12},
		{"standard default", quiz.Round{Format: quiz.FormatStandard}, 30},
		{"connections default", quiz.Round{Format: quiz.FormatConnections}, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.round.TimeLimitOrDefault(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
