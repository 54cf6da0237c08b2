package model

// AnswerPayload is the polymorphic answer a respondent submits. Which field
// carries the answer depends on the question's kind; pointer fields
// distinguish "absent" from zero values so shape mismatches are detectable.
type AnswerPayload struct {
	Text            string   `json:"text,omitempty" bson:"text,omitempty"`                       // TEXT
	SelectedOption  string   `json:"selectedOption,omitempty" bson:"selectedOption,omitempty"`   // SINGLE_CHOICE
	SelectedOptions []string `json:"selectedOptions,omitempty" bson:"selectedOptions,omitempty"` // MULTIPLE_CHOICE
	Rating          *float64 `json:"rating,omitempty" bson:"rating,omitempty"`                   // RATING
	YesNo           *bool    `json:"yesNo,omitempty" bson:"yesNo,omitempty"`                     // YES_NO
}
