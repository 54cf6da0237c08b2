package branching

import (
	"sort"

	"branchbot/internal/model"
)

// NextResult is the outcome of resolving "what comes next": exactly one of
// NextQuestionID or Complete is meaningful, never both.
type NextResult struct {
	NextQuestionID int  `json:"nextQuestionId,omitempty"`
	Complete       bool `json:"complete,omitempty"`
}

// Warning records an answer or rule problem resolution skipped over. It is
// surfaced to the caller for logging; it never blocks navigation.
type Warning struct {
	QuestionID int
	TargetID   int // the skipped rule's target; 0 when the answer itself would not normalize
	Err        error
}

// Resolve answers "given this answer at this question, what's next?".
//
// The answer is normalized; each rule sourced at currentID is evaluated in
// creation order, oldest first, and the first satisfied rule wins. Rules
// whose evaluation errors are skipped with a warning. When no rule matches
// (including when the answer would not normalize) the question following
// currentID in sequential order is the result, and when there is no
// successor the survey is complete. Resolve never fails: the terminal result
// is always a question id or completion.
func Resolve(rules []model.BranchingRule, order []int, currentID int, payload model.AnswerPayload, kind model.QuestionKind) (NextResult, []Warning) {
	var warnings []Warning

	value, err := Normalize(currentID, kind, payload)
	if err != nil {
		warnings = append(warnings, Warning{QuestionID: currentID, Err: err})
	} else {
		for _, rule := range rulesFrom(rules, currentID) {
			matched, err := Evaluate(rule.Condition, value)
			if err != nil {
				warnings = append(warnings, Warning{QuestionID: currentID, TargetID: rule.TargetID, Err: err})
				continue
			}
			if matched {
				return NextResult{NextQuestionID: rule.TargetID}, warnings
			}
		}
	}

	for i, id := range order {
		if id == currentID {
			if i+1 < len(order) {
				return NextResult{NextQuestionID: order[i+1]}, warnings
			}
			break
		}
	}
	return NextResult{Complete: true}, warnings
}

// rulesFrom returns the rules sourced at source, creation time ascending.
// Equal timestamps fall back to target id so evaluation order is
// deterministic either way.
func rulesFrom(rules []model.BranchingRule, source int) []model.BranchingRule {
	var out []model.BranchingRule
	for _, r := range rules {
		if r.SourceID == source {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TargetID < out[j].TargetID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
