package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

// FileStore keeps both documents as files in one directory. Round
// definitions are JSON unless the file name ends in .yaml or .yml.
type FileStore struct {
	roundsPath string
	statePath  string
}

func NewFileStore(dir, roundsFile, stateFile string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{
		roundsPath: filepath.Join(dir, roundsFile),
		statePath:  filepath.Join(dir, stateFile),
	}, nil
}

func (s *FileStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.roundsPath))
	return ext == ".yaml" || ext == ".yml"
}

func (s *FileStore) LoadRounds(_ context.Context) ([]quiz.Round, error) {
	data, err := readFile(s.roundsPath)
	if err != nil {
		return nil, err
	}
	var doc roundsDoc
	if s.isYAML() {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.roundsPath, err)
	}
	return doc.Rounds, nil
}

func (s *FileStore) SaveRounds(_ context.Context, rounds []quiz.Round) error {
	doc := roundsDoc{Rounds: rounds}
	var (
		data []byte
		err  error
	)
	if s.isYAML() {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding rounds: %w", err)
	}
	return writeFile(s.roundsPath, data)
}

func (s *FileStore) LoadSnapshot(_ context.Context) (quiz.Snapshot, error) {
	data, err := readFile(s.statePath)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return quiz.Snapshot{}, ErrNotFound
	}
	var snap quiz.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return quiz.Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.statePath, err)
	}
	return snap, nil
}

func (s *FileStore) SaveSnapshot(_ context.Context, snap quiz.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return writeFile(s.statePath, data)
}

// Check reports whether the data directory is still usable.
func (s *FileStore) Check(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(s.statePath))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(s.statePath))
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeFile replaces path atomically: a reader sees either the old file or
// the complete new one.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
