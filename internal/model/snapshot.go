package model

// SurveySnapshot is the immutable per-survey view the navigation path
// evaluates against: sequential order, question lookup, and the rule set.
// Rebuilt whenever the survey or its rules change; cached between changes.
type SurveySnapshot struct {
	SurveyID  string           `json:"surveyId"`
	Order     []int            `json:"order"`
	Questions map[int]Question `json:"questions"`
	Rules     []BranchingRule  `json:"rules"`
	Settings  SurveySettings   `json:"settings"`
}

// Kind returns the kind of question id, or "" if the id is unknown.
func (s *SurveySnapshot) Kind(id int) QuestionKind {
	if q, ok := s.Questions[id]; ok {
		return q.Kind
	}
	return ""
}
