// Package storage persists the two session documents: the authored round
// definitions and the session snapshot.
package storage

import (
	"errors"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

var (
	// ErrNotFound means the document has never been written.
	ErrNotFound = errors.New("document not found")
	// ErrCorrupt means the document exists but cannot be decoded. The
	// stored bytes are left untouched.
	ErrCorrupt = errors.New("document corrupt")
)

// roundsDoc is the authored document shape: {"rounds": [...]}.
type roundsDoc struct {
	Rounds []quiz.Round `json:"rounds" yaml:"rounds"`
}
