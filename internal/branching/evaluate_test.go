package branching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchbot/internal/model"
)

func cond(op model.Operator, kind model.QuestionKind, values ...string) model.Condition {
	return model.Condition{Operator: op, Values: values, QuestionKind: kind}
}

func TestEvaluateEquals(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"exact", "Alice", true},
		{"case insensitive", "ALICE", true},
		{"trimmed", "  alice  ", true},
		{"different", "Bob", false},
	}
	c := cond(model.OpEquals, model.KindText, "Alice")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(c, single(tc.value))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateEqualsListValueErrors(t *testing.T) {
	c := cond(model.OpEquals, model.KindText, "Alice")
	_, err := Evaluate(c, list([]string{"Alice", "Bob"}))
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
}

func TestEvaluateContains(t *testing.T) {
	c := cond(model.OpContains, model.KindText, "blue")
	got, err := Evaluate(c, single("Light Blue"))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Evaluate(c, single("Green"))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluateContainsListValue(t *testing.T) {
	v := list([]string{"Red", "Blue"})

	got, err := Evaluate(cond(model.OpContains, model.KindMultipleChoice, "Blue"), v)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Evaluate(cond(model.OpContains, model.KindMultipleChoice, "Green"), v)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluateIn(t *testing.T) {
	c := cond(model.OpIn, model.KindSingleChoice, "Red", "Blue")

	got, err := Evaluate(c, single("blue"))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Evaluate(c, single("Green"))
	require.NoError(t, err)
	assert.False(t, got)

	// A list value matches if any member is in the allowed set.
	got, err = Evaluate(c, list([]string{"Green", "Red"}))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Evaluate(c, list([]string{"Green", "Yellow"}))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluateNumeric(t *testing.T) {
	cases := []struct {
		op    model.Operator
		value string
		bound string
		want  bool
	}{
		{model.OpGreaterThan, "5", "4", true},
		{model.OpGreaterThan, "4", "4", false},
		{model.OpGreaterThanOrEqual, "4", "4", true},
		{model.OpGreaterThanOrEqual, "3.5", "4", false},
		{model.OpLessThan, "2", "4", true},
		{model.OpLessThanOrEqual, "4", "4", true},
		{model.OpLessThanOrEqual, "4.1", "4", false},
	}
	for _, tc := range cases {
		got, err := Evaluate(cond(tc.op, model.KindRating, tc.bound), single(tc.value))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s vs %s", tc.value, tc.op, tc.bound)
	}
}

func TestEvaluateNumericErrors(t *testing.T) {
	var evalErr *EvaluationError

	// Non-numeric answer is an error, never silently false.
	_, err := Evaluate(cond(model.OpGreaterThan, model.KindRating, "4"), single("not a number"))
	require.ErrorAs(t, err, &evalErr)

	// Non-numeric operand likewise.
	_, err = Evaluate(cond(model.OpGreaterThan, model.KindRating, "high"), single("5"))
	require.ErrorAs(t, err, &evalErr)

	// Numeric comparison against a list value.
	_, err = Evaluate(cond(model.OpLessThan, model.KindRating, "4"), list([]string{"1", "2"}))
	require.ErrorAs(t, err, &evalErr)
}

func TestEvaluateNoOperands(t *testing.T) {
	_, err := Evaluate(model.Condition{Operator: model.OpEquals, QuestionKind: model.KindText}, single("x"))
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
}

func TestEvaluateDeterministic(t *testing.T) {
	c := cond(model.OpIn, model.KindSingleChoice, "Red", "Blue")
	v := list([]string{"Blue", "Green"})
	first, err := Evaluate(c, v)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		got, err := Evaluate(c, v)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}
