// Package models defines the Q&A domain entities shared by the stores,
// services and transport.
package models

import "strconv"

// Identifiers are distinct types per entity kind so a question id cannot be
// passed where an answer or account id is expected. Stores assign them
// starting at 1; the zero value means "not assigned yet".
type (
	QuestionID int64
	AnswerID   int64
	AccountID  int64
)

func (id QuestionID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id AnswerID) String() string   { return strconv.FormatInt(int64(id), 10) }
func (id AccountID) String() string  { return strconv.FormatInt(int64(id), 10) }
