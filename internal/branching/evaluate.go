package branching

import (
	"strconv"
	"strings"

	"branchbot/internal/model"
)

// Evaluate applies one condition to a normalized value. It is a pure
// function: no I/O, no mutation, deterministic for identical inputs.
//
// String operators compare case-insensitively on trimmed strings. Numeric
// operators require both sides to parse as decimal numbers and return an
// EvaluationError otherwise, never a silent false.
func Evaluate(cond model.Condition, v Value) (bool, error) {
	if len(cond.Values) == 0 {
		return false, &EvaluationError{Operator: cond.Operator, Reason: "condition has no operand values"}
	}

	switch cond.Operator {
	case model.OpEquals:
		if v.List {
			// Conditions like this are rejected at authoring time; a stored
			// one reaching here is a configuration mismatch, not false.
			return false, &EvaluationError{Operator: cond.Operator, Reason: "cannot compare a multi-valued answer for equality"}
		}
		return fold(v.Str) == fold(cond.Values[0]), nil

	case model.OpContains:
		needle := fold(cond.Values[0])
		for _, m := range v.Members() {
			if strings.Contains(fold(m), needle) {
				return true, nil
			}
		}
		return false, nil

	case model.OpIn:
		for _, m := range v.Members() {
			for _, allowed := range cond.Values {
				if fold(m) == fold(allowed) {
					return true, nil
				}
			}
		}
		return false, nil

	case model.OpGreaterThan, model.OpLessThan, model.OpGreaterThanOrEqual, model.OpLessThanOrEqual:
		if v.List {
			return false, &EvaluationError{Operator: cond.Operator, Reason: "cannot compare a multi-valued answer numerically"}
		}
		got, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return false, &EvaluationError{Operator: cond.Operator, Reason: "answer value is not numeric: " + v.Str}
		}
		want, err := strconv.ParseFloat(strings.TrimSpace(cond.Values[0]), 64)
		if err != nil {
			return false, &EvaluationError{Operator: cond.Operator, Reason: "operand is not numeric: " + cond.Values[0]}
		}
		switch cond.Operator {
		case model.OpGreaterThan:
			return got > want, nil
		case model.OpLessThan:
			return got < want, nil
		case model.OpGreaterThanOrEqual:
			return got >= want, nil
		default:
			return got <= want, nil
		}
	}

	return false, &EvaluationError{Operator: cond.Operator, Reason: "unknown operator"}
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
