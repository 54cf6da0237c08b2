package model

import "time"

// ResponseStatus is the navigation state machine for one response.
// COMPLETED is terminal.
type ResponseStatus string

const (
	ResponseNotStarted ResponseStatus = "NOT_STARTED"
	ResponseInProgress ResponseStatus = "IN_PROGRESS"
	ResponseCompleted  ResponseStatus = "COMPLETED"
)

// NavigationState is the per-response navigation bookkeeping: where the
// respondent is, where they have been, what a branch skipped over, and what
// they answered. It is owned by exactly one response and mutated only by the
// request handling that respondent's current message.
type NavigationState struct {
	ResponseID string                `json:"responseId"`
	SurveyID   string                `json:"surveyId"`
	Status     ResponseStatus        `json:"status"`
	CurrentID  int                   `json:"currentId"`
	History    []int                 `json:"history"`
	Skipped    []int                 `json:"skipped,omitempty"`
	Answers    map[int]AnswerPayload `json:"answers"`
	StartedAt  time.Time             `json:"startedAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// WasSkipped reports whether question id was bypassed by a branch.
func (st *NavigationState) WasSkipped(id int) bool {
	for _, s := range st.Skipped {
		if s == id {
			return true
		}
	}
	return false
}

// MarkSkipped records id as bypassed, keeping Skipped duplicate-free.
func (st *NavigationState) MarkSkipped(id int) {
	if !st.WasSkipped(id) {
		st.Skipped = append(st.Skipped, id)
	}
}

// AnswerRecord pairs a question id with the answer given to it.
type AnswerRecord struct {
	QuestionID int           `json:"questionId" bson:"questionId"`
	Answer     AnswerPayload `json:"answer" bson:"answer"`
}

// Response is the archived record of a completed traversal, persisted once
// the navigation state reaches COMPLETED.
type Response struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	SurveyID    string         `json:"surveyId" bson:"surveyId"`
	Answers     []AnswerRecord `json:"answers" bson:"answers"`
	Visited     []int          `json:"visited" bson:"visited"`
	Skipped     []int          `json:"skipped,omitempty" bson:"skipped,omitempty"`
	StartedAt   time.Time      `json:"startedAt" bson:"startedAt"`
	CompletedAt time.Time      `json:"completedAt" bson:"completedAt"`
}
