package branching

import (
	"errors"
	"fmt"

	"branchbot/internal/model"
)

// Validation errors block a rule write and are always surfaced to the caller.
var (
	ErrSelfLoop         = errors.New("rule source and target are the same question")
	ErrDuplicateRule    = errors.New("a rule for this source/target pair already exists")
	ErrCycleDetected    = errors.New("rule would create a branching cycle")
	ErrUnknownQuestion  = errors.New("rule references a question outside this survey")
	ErrUnsupportedKind  = errors.New("source question kind does not support branching")
	ErrKindMismatch     = errors.New("condition kind does not match source question kind")
	ErrInvalidCondition = errors.New("invalid condition")
)

// Usage errors are fatal to the immediate caller.
var (
	ErrEmptySurvey       = errors.New("survey has no questions")
	ErrNotStarted        = errors.New("response has not been started")
	ErrResponseCompleted = errors.New("response is already completed")
	ErrNoHistory         = errors.New("no previous question to go back to")
)

// NormalizationError reports an answer payload whose shape does not match
// the declared question kind. It is surfaced as a warning, never as a fatal
// result: navigation falls through to the sequential order instead.
type NormalizationError struct {
	QuestionID int
	Kind       model.QuestionKind
	Reason     string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize answer for question %d (%s): %s", e.QuestionID, e.Kind, e.Reason)
}

// EvaluationError reports a condition that could not be applied to a value,
// e.g. a numeric operator against a non-numeric answer. The offending rule is
// skipped; remaining rules are still considered.
type EvaluationError struct {
	Operator model.Operator
	Reason   string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("cannot evaluate %s condition: %s", e.Operator, e.Reason)
}
