package database_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VincentIliano/QuizMaster/internal/database"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantJournal string
	}{
		{"file", filepath.Join(t.TempDir(), "quiz.db"), "wal"},
		{"memory", database.Memory, "memory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := database.Open(context.Background(), tt.path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer db.Close()

			var mode string
			if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
				t.Fatalf("reading journal_mode: %v", err)
			}
			if strings.ToLower(mode) != tt.wantJournal {
				t.Errorf("journal_mode = %q, want %q", mode, tt.wantJournal)
			}
		})
	}
}
