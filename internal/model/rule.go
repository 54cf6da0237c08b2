package model

import "time"

// Operator is a comparison operator a condition applies to a normalized
// answer value.
type Operator string

const (
	OpEquals             Operator = "EQUALS"
	OpContains           Operator = "CONTAINS"
	OpIn                 Operator = "IN"
	OpGreaterThan        Operator = "GREATER_THAN"
	OpLessThan           Operator = "LESS_THAN"
	OpGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
	OpLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
)

// Valid reports whether op is one of the seven supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEquals, OpContains, OpIn, OpGreaterThan, OpLessThan,
		OpGreaterThanOrEqual, OpLessThanOrEqual:
		return true
	}
	return false
}

// Numeric reports whether op compares values as decimal numbers.
func (op Operator) Numeric() bool {
	switch op {
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return true
	}
	return false
}

// Condition is the guard on a branching rule: an operator, its operand
// values, and the question kind the condition was authored against. The
// authored kind picks comparison semantics; it must match the source
// question's kind at authoring time. Immutable once created.
type Condition struct {
	Operator     Operator     `json:"operator"`
	Values       []string     `json:"values"`
	QuestionKind QuestionKind `json:"questionKind"`
}

// BranchingRule is a directed edge sourceQuestion -> targetQuestion guarded
// by a condition. The (source, target) pair is unique per survey. CreatedAt
// orders evaluation: oldest rule first, and the first satisfied rule wins.
type BranchingRule struct {
	SurveyID  string    `json:"surveyId"`
	SourceID  int       `json:"sourceId"`
	TargetID  int       `json:"targetId"`
	Condition Condition `json:"condition"`
	CreatedAt time.Time `json:"createdAt"`
}
