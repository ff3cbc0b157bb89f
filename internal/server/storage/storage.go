// Package storage defines the data access port shared by the in-memory and
// PostgreSQL backends. Implementations are safe for concurrent use and hand
// out copies only; callers never hold references into store state.
package storage

import (
	"context"

	"github.com/dmitrijs2005/rush/internal/server/models"
)

// Repository is the data access port.
//
// Mutations that change or remove a question take the acting account and
// fail with common.ErrUnauthorized when it is not the owner. The check and
// the mutation happen atomically inside the backend.
type Repository interface {
	// GetQuestions returns questions ordered by id. A nil limit means no limit.
	GetQuestions(ctx context.Context, limit *int, offset int) ([]models.Question, error)
	GetQuestion(ctx context.Context, id models.QuestionID) (models.Question, error)
	// IsQuestionOwner reports false for a question that does not exist.
	IsQuestionOwner(ctx context.Context, id models.QuestionID, accountID models.AccountID) (bool, error)
	AddQuestion(ctx context.Context, q models.NewQuestion, accountID models.AccountID) (models.Question, error)
	// UpdateQuestion replaces title, content and tags of question id. The
	// id and owner of the stored question never change.
	UpdateQuestion(ctx context.Context, q models.Question, id models.QuestionID, accountID models.AccountID) (models.Question, error)
	// DeleteQuestion removes the question together with its answers.
	DeleteQuestion(ctx context.Context, id models.QuestionID, accountID models.AccountID) error

	// AddAnswer fails with common.ErrNotFound when the question is absent.
	AddAnswer(ctx context.Context, a models.NewAnswer, accountID models.AccountID) (models.Answer, error)

	// AddAccount fails with common.ErrDuplicateAccount when the email is taken.
	AddAccount(ctx context.Context, account models.Account) (models.Account, error)
	GetAccount(ctx context.Context, email string) (models.Account, error)

	Close() error
}
