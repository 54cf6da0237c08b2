package model

import "time"

// QuestionKind defines the type of question
type QuestionKind string

const (
	KindText           QuestionKind = "TEXT"            // Free text
	KindSingleChoice   QuestionKind = "SINGLE_CHOICE"   // Pick one option
	KindMultipleChoice QuestionKind = "MULTIPLE_CHOICE" // Pick any number of options
	KindRating         QuestionKind = "RATING"          // Numeric rating/slider
	KindYesNo          QuestionKind = "YES_NO"          // Yes or No
)

// Valid reports whether k is one of the five supported kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindText, KindSingleChoice, KindMultipleChoice, KindRating, KindYesNo:
		return true
	}
	return false
}

// Question is a question template inside a survey. IDs are survey-scoped
// integers; Position is the question's slot in the sequential order.
type Question struct {
	ID       int          `json:"id" bson:"id"`
	Position int          `json:"position" bson:"position"`
	Kind     QuestionKind `json:"kind" bson:"kind"`
	Prompt   string       `json:"prompt" bson:"prompt"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"` // choice kinds only
	ScaleMin float64      `json:"scaleMin,omitempty" bson:"scaleMin,omitempty"`
	ScaleMax float64      `json:"scaleMax,omitempty" bson:"scaleMax,omitempty"`
}

// SurveySettings configures survey behavior
type SurveySettings struct {
	// BranchableKinds lists the question kinds allowed to source a branching
	// rule. Empty means every kind may branch.
	BranchableKinds []QuestionKind `json:"branchableKinds,omitempty" bson:"branchableKinds,omitempty"`
	// DisableBack turns off the respondent "/back" command for this survey.
	DisableBack bool `json:"disableBack,omitempty" bson:"disableBack,omitempty"`
}

// CanBranch reports whether questions of kind k may source a branching rule
// under these settings.
func (s SurveySettings) CanBranch(k QuestionKind) bool {
	if len(s.BranchableKinds) == 0 {
		return true
	}
	for _, allowed := range s.BranchableKinds {
		if allowed == k {
			return true
		}
	}
	return false
}

// Survey is a persistent template created by a builder
type Survey struct {
	ID        string         `json:"id" bson:"_id,omitempty"`
	BuilderID string         `json:"builderId" bson:"builderId"`
	Title     string         `json:"title" bson:"title"`
	Settings  SurveySettings `json:"settings" bson:"settings"`
	Questions []Question     `json:"questions" bson:"questions"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Order returns the survey's question ids sorted by position.
func (s *Survey) Order() []int {
	qs := make([]Question, len(s.Questions))
	copy(qs, s.Questions)
	for i := 1; i < len(qs); i++ {
		for j := i; j > 0 && qs[j].Position < qs[j-1].Position; j-- {
			qs[j], qs[j-1] = qs[j-1], qs[j]
		}
	}
	order := make([]int, len(qs))
	for i, q := range qs {
		order[i] = q.ID
	}
	return order
}

// QuestionByID returns the question with the given id, or nil.
func (s *Survey) QuestionByID(id int) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// Kinds returns a question-id -> kind lookup for the survey.
func (s *Survey) Kinds() map[int]QuestionKind {
	kinds := make(map[int]QuestionKind, len(s.Questions))
	for _, q := range s.Questions {
		kinds[q.ID] = q.Kind
	}
	return kinds
}
