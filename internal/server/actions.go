package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/VincentIliano/QuizMaster/internal/engine"
	"github.com/VincentIliano/QuizMaster/internal/metrics"
	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

// Action names accepted over HTTP and the websocket.
const (
	ActionAssignTeams        = "assign_teams"
	ActionSelectRound        = "select_round"
	ActionAdvanceQuestion    = "advance_question"
	ActionRewindQuestion     = "rewind_question"
	ActionStartTimer         = "start_timer"
	ActionPauseTimer         = "pause_timer"
	ActionToggleMedia        = "toggle_media"
	ActionBuzz               = "buzz"
	ActionJudge              = "judge"
	ActionRevealAnswer       = "reveal_answer"
	ActionAdjustScore        = "adjust_score"
	ActionRevealGroup        = "reveal_group"
	ActionRevealTopic        = "reveal_topic"
	ActionRevealClue         = "reveal_clue"
	ActionAdvanceOption      = "advance_option"
	ActionUnfreezeTeam       = "unfreeze_team"
	ActionEndRoundEarly      = "end_round_early"
	ActionFinishRound        = "finish_round"
	ActionReturnToDashboard  = "return_to_dashboard"
	ActionResetRound         = "reset_round"
	ActionGoToFinalResults   = "go_to_final_results"
	ActionRevealNextFinalist = "reveal_next_finalist"
	ActionUpdateRounds       = "update_round_content"
	ActionGetRounds          = "get_rounds"
	ActionGetState           = "get_state"
)

var (
	errUnknownAction = errors.New("unknown action")
	errMissingField  = errors.New("missing field")
)

// Action is one moderator or contestant command. Only the fields the
// action type needs are read.
type Action struct {
	Type      string       `json:"type"`
	Team      *int         `json:"team,omitempty" description:"Team index"`
	Round     *int         `json:"round,omitempty" description:"Round index"`
	Group     *int         `json:"group,omitempty" description:"Connections group index"`
	Score     *int         `json:"score,omitempty" description:"New absolute score for adjust_score"`
	AutoStart bool         `json:"autoStart,omitempty" description:"Open the buzzer immediately on advance_question"`
	Correct   *bool        `json:"correct,omitempty"`
	Answer    string       `json:"answer,omitempty" description:"Free-text answer, matched against the accepted answers"`
	Teams     []string     `json:"teams,omitempty"`
	Rounds    []quiz.Round `json:"rounds,omitempty"`
}

// Result is what an action returns to the caller that sent it. The new
// state is broadcast separately to every viewer.
type Result struct {
	Action  string              `json:"action"`
	Outcome engine.BuzzOutcome  `json:"outcome,omitempty"`
	State   *engine.PublicState `json:"state,omitempty"`
	Rounds  []quiz.Round        `json:"rounds,omitempty"`
}

type dispatcher struct {
	game    *engine.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func (d *dispatcher) dispatch(ctx context.Context, a Action) (Result, error) {
	res := Result{Action: a.Type}
	if err := d.apply(ctx, a, &res); err != nil {
		label := a.Type
		if errors.Is(err, errUnknownAction) {
			label = "unknown"
		}
		d.metrics.Actions.WithLabelValues(label).Inc()
		d.logger.Warn("rejected action", "action", a.Type, "error", err)
		return Result{}, err
	}
	d.metrics.Actions.WithLabelValues(a.Type).Inc()
	return res, nil
}

func (d *dispatcher) apply(ctx context.Context, a Action, res *Result) error {
	g := d.game
	switch a.Type {
	case ActionAssignTeams:
		if a.Teams == nil {
			return missing("teams")
		}
		g.AssignTeams(a.Teams)
	case ActionSelectRound:
		if a.Round == nil {
			return missing("round")
		}
		g.SelectRound(*a.Round)
	case ActionAdvanceQuestion:
		g.AdvanceQuestion(a.AutoStart)
	case ActionRewindQuestion:
		g.RewindQuestion()
	case ActionStartTimer:
		g.StartTimer()
	case ActionPauseTimer:
		g.PauseTimer()
	case ActionToggleMedia:
		g.ToggleMedia()
	case ActionBuzz:
		if a.Team == nil {
			return missing("team")
		}
		res.Outcome = g.Buzz(*a.Team)
		d.metrics.Buzzes.WithLabelValues(string(res.Outcome)).Inc()
	case ActionJudge:
		switch {
		case a.Answer != "":
			g.Judge(engine.Answer(a.Answer))
		case a.Correct != nil:
			g.Judge(engine.Verdict{Correct: *a.Correct})
		default:
			return missing("correct or answer")
		}
	case ActionRevealAnswer:
		g.RevealAnswer()
	case ActionAdjustScore:
		if a.Team == nil {
			return missing("team")
		}
		if a.Score == nil {
			return missing("score")
		}
		g.AdjustScore(*a.Team, *a.Score)
	case ActionRevealGroup:
		if a.Group == nil {
			return missing("group")
		}
		g.RevealGroup(*a.Group)
	case ActionRevealTopic:
		g.RevealTopic()
	case ActionRevealClue:
		g.RevealClue()
	case ActionAdvanceOption:
		g.AdvanceOption()
	case ActionUnfreezeTeam:
		if a.Team == nil {
			return missing("team")
		}
		g.UnfreezeTeam(*a.Team)
	case ActionEndRoundEarly:
		g.EndRoundEarly()
	case ActionFinishRound:
		g.FinishRound()
	case ActionReturnToDashboard:
		g.ReturnToDashboard()
	case ActionResetRound:
		if a.Round == nil {
			return missing("round")
		}
		g.ResetRound(*a.Round)
	case ActionGoToFinalResults:
		g.GoToFinalResults()
	case ActionRevealNextFinalist:
		g.RevealNextFinalist()
	case ActionUpdateRounds:
		if a.Rounds == nil {
			return missing("rounds")
		}
		g.UpdateRoundContent(ctx, a.Rounds)
	case ActionGetRounds:
		res.Rounds = g.Rounds()
	case ActionGetState:
		s := g.State()
		res.State = &s
	default:
		return fmt.Errorf("%w: %q", errUnknownAction, a.Type)
	}
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", errMissingField, field)
}
