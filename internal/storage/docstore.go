package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

const (
	docRounds  = "rounds"
	docSession = "session"
)

// DocStore keeps both documents as JSONB rows in the documents table
// created by the migrations package.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

func (s *DocStore) get(ctx context.Context, id string, dest any) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM documents WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	return nil
}

func (s *DocStore) put(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, data, updated_at) VALUES (?, jsonb(?), ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", id, err)
	}
	return nil
}

func (s *DocStore) LoadRounds(ctx context.Context) ([]quiz.Round, error) {
	var doc roundsDoc
	if err := s.get(ctx, docRounds, &doc); err != nil {
		return nil, err
	}
	return doc.Rounds, nil
}

func (s *DocStore) SaveRounds(ctx context.Context, rounds []quiz.Round) error {
	return s.put(ctx, docRounds, roundsDoc{Rounds: rounds})
}

func (s *DocStore) LoadSnapshot(ctx context.Context) (quiz.Snapshot, error) {
	var snap quiz.Snapshot
	if err := s.get(ctx, docSession, &snap); err != nil {
		return quiz.Snapshot{}, err
	}
	return snap, nil
}

func (s *DocStore) SaveSnapshot(ctx context.Context, snap quiz.Snapshot) error {
	return s.put(ctx, docSession, snap)
}

func (s *DocStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
