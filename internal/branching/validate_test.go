package branching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchbot/internal/model"
)

func questionSet() map[int]model.Question {
	return map[int]model.Question{
		1: {ID: 1, Position: 1, Kind: model.KindText},
		2: {ID: 2, Position: 2, Kind: model.KindSingleChoice, Options: []string{"Red", "Blue"}},
		3: {ID: 3, Position: 3, Kind: model.KindRating},
		4: {ID: 4, Position: 4, Kind: model.KindMultipleChoice, Options: []string{"A", "B"}},
		5: {ID: 5, Position: 5, Kind: model.KindText},
	}
}

func candidate(source, target int, c model.Condition) model.BranchingRule {
	return model.BranchingRule{SourceID: source, TargetID: target, Condition: c, CreatedAt: time.Now()}
}

func TestValidateRuleAccepts(t *testing.T) {
	g := NewGraph(nil)
	err := ValidateRule(g, candidate(1, 3, cond(model.OpEquals, model.KindText, "yes")), questionSet(), nil)
	assert.NoError(t, err)
}

func TestValidateRuleSelfLoop(t *testing.T) {
	g := NewGraph(nil)
	err := ValidateRule(g, candidate(2, 2, cond(model.OpEquals, model.KindSingleChoice, "Red")), questionSet(), nil)
	require.ErrorIs(t, err, ErrSelfLoop)
}

func TestValidateRuleUnknownQuestion(t *testing.T) {
	g := NewGraph(nil)
	err := ValidateRule(g, candidate(99, 2, cond(model.OpEquals, model.KindText, "x")), questionSet(), nil)
	require.ErrorIs(t, err, ErrUnknownQuestion)

	err = ValidateRule(g, candidate(1, 99, cond(model.OpEquals, model.KindText, "x")), questionSet(), nil)
	require.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestValidateRuleDuplicate(t *testing.T) {
	g := NewGraph([]model.BranchingRule{rule(1, 3)})
	err := ValidateRule(g, candidate(1, 3, cond(model.OpEquals, model.KindText, "x")), questionSet(), nil)
	require.ErrorIs(t, err, ErrDuplicateRule)
}

// Adding Q3 -> Q1 when Q1 -> Q3 exists is rejected and the graph unchanged.
func TestValidateRuleCycle(t *testing.T) {
	g := NewGraph([]model.BranchingRule{rule(1, 3)})
	err := ValidateRule(g, candidate(3, 1, cond(model.OpGreaterThan, model.KindRating, "4")), questionSet(), nil)
	require.ErrorIs(t, err, ErrCycleDetected)

	assert.False(t, g.HasEdge(3, 1))
	assert.Empty(t, g.FindAllCycles())
}

func TestValidateRuleCapability(t *testing.T) {
	g := NewGraph(nil)
	onlyChoice := func(k model.QuestionKind) bool { return k == model.KindSingleChoice }

	err := ValidateRule(g, candidate(1, 3, cond(model.OpEquals, model.KindText, "x")), questionSet(), onlyChoice)
	require.ErrorIs(t, err, ErrUnsupportedKind)

	err = ValidateRule(g, candidate(2, 3, cond(model.OpEquals, model.KindSingleChoice, "Red")), questionSet(), onlyChoice)
	assert.NoError(t, err)
}

func TestValidateConditionKindMismatch(t *testing.T) {
	// Authored against SINGLE_CHOICE, source question is MULTIPLE_CHOICE.
	err := ValidateCondition(cond(model.OpEquals, model.KindSingleChoice, "Red"), model.KindMultipleChoice)
	require.ErrorIs(t, err, ErrKindMismatch)
}

func TestValidateConditionMultiValuedEquals(t *testing.T) {
	err := ValidateCondition(cond(model.OpEquals, model.KindMultipleChoice, "Red"), model.KindMultipleChoice)
	require.ErrorIs(t, err, ErrInvalidCondition)

	err = ValidateCondition(cond(model.OpGreaterThan, model.KindMultipleChoice, "4"), model.KindMultipleChoice)
	require.ErrorIs(t, err, ErrInvalidCondition)

	// Contains and In remain valid for multi-valued answers.
	assert.NoError(t, ValidateCondition(cond(model.OpContains, model.KindMultipleChoice, "Red"), model.KindMultipleChoice))
	assert.NoError(t, ValidateCondition(cond(model.OpIn, model.KindMultipleChoice, "Red", "Blue"), model.KindMultipleChoice))
}

func TestValidateConditionNumericOperand(t *testing.T) {
	err := ValidateCondition(cond(model.OpGreaterThanOrEqual, model.KindRating, "high"), model.KindRating)
	require.ErrorIs(t, err, ErrInvalidCondition)

	assert.NoError(t, ValidateCondition(cond(model.OpGreaterThanOrEqual, model.KindRating, "4"), model.KindRating))
}

func TestValidateConditionShape(t *testing.T) {
	err := ValidateCondition(model.Condition{Operator: "BOGUS", Values: []string{"x"}, QuestionKind: model.KindText}, model.KindText)
	require.ErrorIs(t, err, ErrInvalidCondition)

	err = ValidateCondition(model.Condition{Operator: model.OpEquals, QuestionKind: model.KindText}, model.KindText)
	require.ErrorIs(t, err, ErrInvalidCondition)
}
