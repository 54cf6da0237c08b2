package branching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchbot/internal/model"
)

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func TestNormalizeText(t *testing.T) {
	v, err := Normalize(1, model.KindText, model.AnswerPayload{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Str)
	assert.False(t, v.List)

	// Empty text is an empty string, not an error.
	v, err = Normalize(1, model.KindText, model.AnswerPayload{})
	require.NoError(t, err)
	assert.Equal(t, "", v.Str)
}

func TestNormalizeSingleChoice(t *testing.T) {
	v, err := Normalize(2, model.KindSingleChoice, model.AnswerPayload{SelectedOption: "Red"})
	require.NoError(t, err)
	assert.Equal(t, "Red", v.Str)

	_, err = Normalize(2, model.KindSingleChoice, model.AnswerPayload{})
	require.Error(t, err)
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
	assert.Equal(t, 2, normErr.QuestionID)
	assert.Equal(t, model.KindSingleChoice, normErr.Kind)
}

func TestNormalizeMultipleChoice(t *testing.T) {
	v, err := Normalize(3, model.KindMultipleChoice, model.AnswerPayload{SelectedOptions: []string{"Red", "Blue", "Red"}})
	require.NoError(t, err)
	assert.True(t, v.List)
	// Order preserved, duplicates kept.
	assert.Equal(t, []string{"Red", "Blue", "Red"}, v.Items)

	_, err = Normalize(3, model.KindMultipleChoice, model.AnswerPayload{})
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestNormalizeRating(t *testing.T) {
	cases := []struct {
		rating float64
		want   string
	}{
		{5, "5"},
		{4.5, "4.5"},
		{0.5, "0.5"},
		{10, "10"},
	}
	for _, tc := range cases {
		v, err := Normalize(4, model.KindRating, model.AnswerPayload{Rating: floatPtr(tc.rating)})
		require.NoError(t, err)
		assert.Equal(t, tc.want, v.Str)
	}

	_, err := Normalize(4, model.KindRating, model.AnswerPayload{})
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestNormalizeYesNo(t *testing.T) {
	v, err := Normalize(5, model.KindYesNo, model.AnswerPayload{YesNo: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Yes", v.Str)

	v, err = Normalize(5, model.KindYesNo, model.AnswerPayload{YesNo: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "No", v.Str)

	_, err = Normalize(5, model.KindYesNo, model.AnswerPayload{})
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestNormalizeUnknownKind(t *testing.T) {
	_, err := Normalize(6, model.QuestionKind("BOGUS"), model.AnswerPayload{Text: "x"})
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
	assert.Equal(t, 6, normErr.QuestionID)
}
