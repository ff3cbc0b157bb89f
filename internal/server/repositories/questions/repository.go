package questions

import (
	"context"

	"github.com/dmitrijs2005/rush/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, limit *int, offset int) ([]models.Question, error)
	Get(ctx context.Context, id models.QuestionID) (models.Question, error)
	IsOwner(ctx context.Context, id models.QuestionID, accountID models.AccountID) (bool, error)
	LockOwner(ctx context.Context, id models.QuestionID) (models.AccountID, error)
	Create(ctx context.Context, q models.NewQuestion, accountID models.AccountID) (models.Question, error)
	Update(ctx context.Context, q models.Question, id models.QuestionID) (models.Question, error)
	Delete(ctx context.Context, id models.QuestionID) error
	Import(ctx context.Context, q models.Question) error
	ResetSequence(ctx context.Context) error
}
