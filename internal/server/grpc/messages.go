package grpc

import "github.com/dmitrijs2005/rush/internal/server/models"

type RegisterResponse struct {
	AccountID models.AccountID `json:"account_id"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ListQuestionsRequest struct {
	Limit  *int `json:"limit,omitempty"`
	Offset int  `json:"offset"`
}

type ListQuestionsResponse struct {
	Questions []models.Question `json:"questions"`
}

type QuestionRequest struct {
	ID models.QuestionID `json:"id"`
}

type UpdateQuestionRequest struct {
	ID       models.QuestionID `json:"id"`
	Question models.Question   `json:"question"`
}

type DeleteQuestionResponse struct {
	Deleted bool `json:"deleted"`
}

type GenerateAnswerRequest struct {
	QuestionID models.QuestionID `json:"question_id"`
}
