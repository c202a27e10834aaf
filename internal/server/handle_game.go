package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

// RoundsDocument wraps the authored round definitions.
type RoundsDocument struct {
	Rounds []quiz.Round `json:"rounds"`
}

func handleState(d *dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.game.State())
	}
}

func handleRounds(d *dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, RoundsDocument{Rounds: d.game.Rounds()})
	}
}

func handleUpdateRounds(d *dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc RoundsDocument
		if err := readJSON(w, r, &doc); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if doc.Rounds == nil {
			writeError(w, http.StatusBadRequest, "rounds is required")
			return
		}
		if _, err := d.dispatch(r.Context(), Action{Type: ActionUpdateRounds, Rounds: doc.Rounds}); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, RoundsDocument{Rounds: d.game.Rounds()})
	}
}

// handleAction applies the action named in the path. The body carries its
// parameters and may be empty for actions that take none.
func handleAction(d *dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a Action
		if err := readJSON(w, r, &a); err != nil && !errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.Type = chi.URLParam(r, "type")

		res, err := d.dispatch(r.Context(), a)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if res.State == nil {
			s := d.game.State()
			res.State = &s
		}
		writeJSON(w, http.StatusOK, res)
	}
}
