package branching

import (
	"fmt"
	"strconv"
	"strings"

	"branchbot/internal/model"
)

// Capability reports whether a question kind may source a branching rule.
// The policy belongs to the caller (survey settings), not to the validator.
type Capability func(model.QuestionKind) bool

// ValidateRule accepts or rejects a candidate rule against the current
// graph. It only answers; persistence is the caller's concern, and the
// caller must serialize validate-then-insert per survey so two concurrent
// candidates cannot both pass against a stale graph.
func ValidateRule(g *Graph, candidate model.BranchingRule, questions map[int]model.Question, canBranch Capability) error {
	if candidate.SourceID == candidate.TargetID {
		return fmt.Errorf("%w: question %d", ErrSelfLoop, candidate.SourceID)
	}

	source, ok := questions[candidate.SourceID]
	if !ok {
		return fmt.Errorf("%w: source %d", ErrUnknownQuestion, candidate.SourceID)
	}
	if _, ok := questions[candidate.TargetID]; !ok {
		return fmt.Errorf("%w: target %d", ErrUnknownQuestion, candidate.TargetID)
	}

	if canBranch != nil && !canBranch(source.Kind) {
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, source.Kind)
	}

	if err := ValidateCondition(candidate.Condition, source.Kind); err != nil {
		return err
	}

	if g.HasEdge(candidate.SourceID, candidate.TargetID) {
		return fmt.Errorf("%w: %d -> %d", ErrDuplicateRule, candidate.SourceID, candidate.TargetID)
	}

	if !g.CanAdd(candidate.SourceID, candidate.TargetID) {
		return fmt.Errorf("%w: %d -> %d", ErrCycleDetected, candidate.SourceID, candidate.TargetID)
	}

	return nil
}

// ValidateCondition rejects conditions that could never evaluate cleanly at
// runtime: unknown operators, missing operands, a kind that does not match
// the source question, single-valued comparisons against a multi-valued
// kind, and numeric operators with non-numeric operands.
func ValidateCondition(c model.Condition, sourceKind model.QuestionKind) error {
	if !c.Operator.Valid() {
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidCondition, c.Operator)
	}
	if len(c.Values) == 0 {
		return fmt.Errorf("%w: no operand values", ErrInvalidCondition)
	}
	if c.QuestionKind != sourceKind {
		return fmt.Errorf("%w: authored for %s, source question is %s", ErrKindMismatch, c.QuestionKind, sourceKind)
	}
	if sourceKind == model.KindMultipleChoice && (c.Operator == model.OpEquals || c.Operator.Numeric()) {
		return fmt.Errorf("%w: %s cannot apply to a multi-valued answer", ErrInvalidCondition, c.Operator)
	}
	if c.Operator.Numeric() {
		for _, v := range c.Values {
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return fmt.Errorf("%w: operand %q is not numeric", ErrInvalidCondition, v)
			}
		}
	}
	return nil
}
