package branching

import (
	"fmt"
	"time"

	"branchbot/internal/model"
)

// Navigator layers per-response bookkeeping (visited history, skipped ids,
// answers, backward navigation) on top of Resolve. It mutates the
// NavigationState it was given; loading and saving that state belongs to the
// caller. A state is owned by exactly one response, so no locking happens
// here.
type Navigator struct {
	snap  *model.SurveySnapshot
	state *model.NavigationState
}

// NewNavigator binds a survey snapshot to one response's navigation state.
func NewNavigator(snap *model.SurveySnapshot, state *model.NavigationState) *Navigator {
	return &Navigator{snap: snap, state: state}
}

// Start positions the response at the survey's first question in sequential
// order and resets history.
func (n *Navigator) Start() (int, error) {
	if len(n.snap.Order) == 0 {
		return 0, ErrEmptySurvey
	}
	first := n.snap.Order[0]
	n.state.Status = model.ResponseInProgress
	n.state.CurrentID = first
	n.state.History = nil
	n.state.Skipped = nil
	if n.state.Answers == nil {
		n.state.Answers = make(map[int]model.AnswerPayload)
	}
	n.state.StartedAt = time.Now()
	n.state.UpdatedAt = n.state.StartedAt
	return first, nil
}

// Advance records the answer, resolves the next question, appends the
// answered question to history, and marks any questions a forward branch
// bypassed as skipped. Advancing a completed response is a usage error.
func (n *Navigator) Advance(questionID int, payload model.AnswerPayload) (NextResult, []Warning, error) {
	switch n.state.Status {
	case model.ResponseCompleted:
		return NextResult{}, nil, ErrResponseCompleted
	case model.ResponseInProgress:
	default:
		return NextResult{}, nil, ErrNotStarted
	}

	kind := n.snap.Kind(questionID)
	if kind == "" {
		return NextResult{}, nil, fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}

	// Re-answering overwrites the previous answer.
	n.state.Answers[questionID] = payload

	result, warnings := Resolve(n.snap.Rules, n.snap.Order, questionID, payload, kind)

	n.state.History = append(n.state.History, questionID)
	if result.Complete {
		n.state.Status = model.ResponseCompleted
	} else {
		n.markSkipped(questionID, result.NextQuestionID)
		n.state.CurrentID = result.NextQuestionID
	}
	n.state.UpdatedAt = time.Now()
	return result, warnings, nil
}

// Back pops the last answered question from history and makes it current
// again. The answer given before is kept; re-answering overwrites it.
func (n *Navigator) Back() (int, error) {
	if n.state.Status == model.ResponseCompleted {
		return 0, ErrResponseCompleted
	}
	if len(n.state.History) == 0 {
		return 0, ErrNoHistory
	}
	last := n.state.History[len(n.state.History)-1]
	n.state.History = n.state.History[:len(n.state.History)-1]
	n.state.CurrentID = last
	n.state.UpdatedAt = time.Now()
	return last, nil
}

// markSkipped records every question between from and to in sequential
// order as bypassed. Backward or adjacent moves skip nothing.
func (n *Navigator) markSkipped(from, to int) {
	fromIdx, toIdx := -1, -1
	for i, id := range n.snap.Order {
		if id == from {
			fromIdx = i
		}
		if id == to {
			toIdx = i
		}
	}
	if fromIdx < 0 || toIdx < 0 {
		return
	}
	for i := fromIdx + 1; i < toIdx; i++ {
		n.state.MarkSkipped(n.snap.Order[i])
	}
}
