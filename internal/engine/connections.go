package engine

import (
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/VincentIliano/QuizMaster/internal/quiz"
)

const reasonGroup = "connection found"

// connectionsRound plays a shuffled grid of items hiding several groups.
// The buzzer holder scores base points times a streak that grows with each
// group they reveal.
type connectionsRound struct {
	streak int
}

func (c *connectionsRound) advance(e *Engine, _ bool) {
	if e.stepQuestion() {
		e.enter(true)
	}
}

func (c *connectionsRound) setupQuestion(e *Engine, index int) {
	c.streak = 0
	grid(e, index)
}

// grid returns the annotations for question index, building them on first
// visit.
func grid(e *Engine, index int) *quiz.Grid {
	round, prog, _ := e.s.currentRound()
	if g, ok := prog.Grids[index]; ok {
		return g
	}
	g := &quiz.Grid{SolvedGroups: []int{}}
	for gi, group := range round.Questions[index].Groups {
		for _, item := range group.Items {
			g.Items = append(g.Items, quiz.GridItem{ID: uuid.NewString(), Text: item, GroupIndex: gi})
		}
	}
	rand.Shuffle(len(g.Items), func(i, j int) { g.Items[i], g.Items[j] = g.Items[j], g.Items[i] })
	prog.Grids[index] = g
	return g
}

func (c *connectionsRound) buzzed(*Engine, int) { c.streak = 0 }

func (c *connectionsRound) judge(e *Engine, v Verdict) {
	round, _, _ := e.s.currentRound()
	q, _ := e.s.currentQuestion()
	w := e.s.buzzerWinner
	if v.accepts(q) {
		e.award(w, pointsOr(round.Points, 1), reasonCorrect)
		e.s.lastJudgement = judgement(true)
		e.cue(quiz.CueCorrect)
		return
	}
	e.lockOutAndReopen(w)
}

// solve marks group gi solved and reports whether it was newly solved.
func (c *connectionsRound) solve(g *quiz.Grid, gi int) bool {
	if slices.Contains(g.SolvedGroups, gi) {
		return false
	}
	g.SolvedGroups = append(g.SolvedGroups, gi)
	for i := range g.Items {
		if g.Items[i].GroupIndex == gi {
			g.Items[i].Solved = true
		}
	}
	return true
}

func (c *connectionsRound) reveal(e *Engine) {
	q, _ := e.s.currentQuestion()
	g := grid(e, e.s.questionIndex)
	for gi := range q.Groups {
		c.solve(g, gi)
	}
}

func (c *connectionsRound) onTimeout(e *Engine) { timeout(e) }

func (c *connectionsRound) project(e *Engine, v *RoundView) {
	cv := &ConnectionsView{Streak: c.streak, Items: []quiz.GridItem{}, SolvedGroups: []int{}, Groups: []string{}}
	_, prog, _ := e.s.currentRound()
	q, ok := e.s.currentQuestion()
	if !ok {
		v.Connections = cv
		return
	}
	if g, ok := prog.Grids[e.s.questionIndex]; ok {
		for _, item := range g.Items {
			if !item.Solved {
				item.GroupIndex = -1
			}
			cv.Items = append(cv.Items, item)
		}
		cv.SolvedGroups = append(cv.SolvedGroups, g.SolvedGroups...)
		for _, gi := range g.SolvedGroups {
			if gi < len(q.Groups) {
				cv.Groups = append(cv.Groups, q.Groups[gi].Name)
			}
		}
	}
	v.Connections = cv
}

// RevealGroup marks a Connections group solved. A team holding the buzzer
// scores base points multiplied by its current streak plus one.
func (e *Engine) RevealGroup(group int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.strategy.(*connectionsRound)
	if !ok || !e.questionOpen() {
		return
	}
	q, _ := e.s.currentQuestion()
	if group < 0 || group >= len(q.Groups) {
		e.ignore("reveal_group", "group out of range", "group", group)
		return
	}
	g := grid(e, e.s.questionIndex)
	if !c.solve(g, group) {
		return
	}

	if w := e.s.buzzerWinner; e.s.validTeam(w) {
		round, _, _ := e.s.currentRound()
		e.award(w, pointsOr(round.Points, 1)*(c.streak+1), reasonGroup)
		c.streak++
		e.s.lastJudgement = judgement(true)
		e.cue(quiz.CueCorrect)
	}
	if len(g.SolvedGroups) == len(q.Groups) {
		e.revealLocked()
	}
	e.commit()
}
