package answers

import (
	"context"

	"github.com/dmitrijs2005/rush/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a models.NewAnswer, accountID models.AccountID) (models.Answer, error)
}
