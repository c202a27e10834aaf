package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
	"github.com/VincentIliano/QuizMaster/internal/storage"
)

func sampleRounds() []quiz.Round {
	return []quiz.Round{
		{
			Name:      "Warm-up",
			Format:    quiz.FormatStandard,
			Points:    10,
			TimeLimit: 20,
			Questions: []quiz.Question{{Text: "Capital of Peru?", Answer: "Lima"}},
		},
		{
			Name:   "Walls",
			Format: quiz.FormatConnections,
			Points: 10,
			Questions: []quiz.Question{{
				Text: "Find the groups",
				Groups: []quiz.Group{
					{Name: "Rivers", Items: []string{"Nile", "Amazon"}},
					{Name: "Planets", Items: []string{"Mars", "Venus"}},
				},
			}},
		},
	}
}

func TestFileStoreRounds(t *testing.T) {
	for _, name := range []string{"quiz_data.json", "quiz_data.yaml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s, err := storage.NewFileStore(t.TempDir(), name, "game_state.json")
			if err != nil {
				t.Fatalf("NewFileStore: %v", err)
			}

			if _, err := s.LoadRounds(ctx); !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("LoadRounds on empty dir: err = %v, want ErrNotFound", err)
			}

			if err := s.SaveRounds(ctx, sampleRounds()); err != nil {
				t.Fatalf("SaveRounds: %v", err)
			}
			got, err := s.LoadRounds(ctx)
			if err != nil {
				t.Fatalf("LoadRounds: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("len(rounds) = %d, want 2", len(got))
			}
			if got[0].Name != "Warm-up" || got[0].Points != 10 || got[0].TimeLimit != 20 {
				t.Errorf("round 0 = %+v", got[0])
			}
			if got[1].Format != quiz.FormatConnections {
				t.Errorf("round 1 format = %q, want %q", got[1].Format, quiz.FormatConnections)
			}
			if items := got[1].Questions[0].Groups[1].Items; len(items) != 2 || items[0] != "Mars" {
				t.Errorf("group items = %v", items)
			}
		})
	}
}

func TestFileStoreSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := storage.NewFileStore(dir, "quiz_data.json", "game_state.json")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := s.LoadSnapshot(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("LoadSnapshot on empty dir: err = %v, want ErrNotFound", err)
	}

	winner := 1
	snap := quiz.Snapshot{
		Teams: []quiz.Team{
			{Name: "Red", Score: 10, History: []quiz.ScoreEvent{{Amount: 10, Reason: "correct answer", ResultingScore: 10, RoundName: "Warm-up"}}},
			{Name: "Blue", History: []quiz.ScoreEvent{}},
		},
		CurrentRoundIndex:    0,
		CurrentQuestionIndex: 2,
		Status:               quiz.StatusBuzzed,
		TimerValue:           7,
		BuzzerWinner:         &winner,
		LockedOutTeams:       []int{0},
		Rounds:               []quiz.RoundProgressDoc{{Name: "Warm-up", QuestionsCompleted: 3, Scores: map[int]int{0: 10}}},
		SavedAt:              time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
	}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got.Teams[0].Score != 10 || len(got.Teams[0].History) != 1 {
		t.Errorf("team 0 = %+v", got.Teams[0])
	}
	if got.BuzzerWinner == nil || *got.BuzzerWinner != 1 {
		t.Errorf("buzzerWinner = %v, want 1", got.BuzzerWinner)
	}
	if got.Rounds[0].Scores[0] != 10 || got.Rounds[0].QuestionsCompleted != 3 {
		t.Errorf("round progress = %+v", got.Rounds[0])
	}
	if !got.SavedAt.Equal(snap.SavedAt) {
		t.Errorf("savedAt = %v, want %v", got.SavedAt, snap.SavedAt)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "game_state.json")
	if err := os.WriteFile(path, []byte(`{"teams": [`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := storage.NewFileStore(dir, "quiz_data.json", "game_state.json")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := s.LoadSnapshot(ctx); !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("corrupt file removed: %v", err)
	}
	if string(data) != `{"teams": [` {
		t.Errorf("corrupt file rewritten: %q", data)
	}
}

func TestFileStoreEmptySnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "game_state.json"), []byte("  \n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := storage.NewFileStore(dir, "quiz_data.json", "game_state.json")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := s.LoadSnapshot(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
