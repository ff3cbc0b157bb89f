package models

// Answer is a stored answer to a question. Answers are never updated or
// deleted; they go away with their question.
type Answer struct {
	ID         AnswerID   `json:"id"`
	Content    string     `json:"content"`
	QuestionID QuestionID `json:"question_id"`
	AccountID  AccountID  `json:"account_id,omitempty"`
}

// NewAnswer carries the caller supplied fields of an answer to create.
type NewAnswer struct {
	Content    string     `json:"content"`
	QuestionID QuestionID `json:"question_id"`
}
