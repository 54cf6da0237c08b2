package branching

import (
	"strconv"

	"branchbot/internal/model"
)

// Value is the canonical comparable form of an answer: either a single
// string or an ordered list of strings. Produced fresh for each resolution;
// never persisted.
type Value struct {
	List  bool
	Str   string
	Items []string
}

func single(s string) Value {
	return Value{Str: s}
}

func list(items []string) Value {
	return Value{List: true, Items: items}
}

// Members returns the value as a slice: the list items, or the single string.
func (v Value) Members() []string {
	if v.List {
		return v.Items
	}
	return []string{v.Str}
}

// Normalize converts a polymorphic answer payload into its canonical
// comparable value according to the declared question kind. A payload whose
// shape does not match the kind yields a NormalizationError carrying the
// question id and kind.
func Normalize(questionID int, kind model.QuestionKind, payload model.AnswerPayload) (Value, error) {
	switch kind {
	case model.KindText:
		// Empty or missing text is an empty string, not an error.
		return single(payload.Text), nil

	case model.KindSingleChoice:
		if payload.SelectedOption == "" {
			return Value{}, &NormalizationError{QuestionID: questionID, Kind: kind, Reason: "no option selected"}
		}
		return single(payload.SelectedOption), nil

	case model.KindMultipleChoice:
		if payload.SelectedOptions == nil {
			return Value{}, &NormalizationError{QuestionID: questionID, Kind: kind, Reason: "no options selected"}
		}
		// Order preserved, not deduplicated.
		return list(payload.SelectedOptions), nil

	case model.KindRating:
		if payload.Rating == nil {
			return Value{}, &NormalizationError{QuestionID: questionID, Kind: kind, Reason: "no rating given"}
		}
		return single(strconv.FormatFloat(*payload.Rating, 'f', -1, 64)), nil

	case model.KindYesNo:
		if payload.YesNo == nil {
			return Value{}, &NormalizationError{QuestionID: questionID, Kind: kind, Reason: "no yes/no value given"}
		}
		if *payload.YesNo {
			return single("Yes"), nil
		}
		return single("No"), nil
	}

	return Value{}, &NormalizationError{QuestionID: questionID, Kind: kind, Reason: "unknown question kind"}
}
