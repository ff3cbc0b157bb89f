package accounts

import (
	"context"

	"github.com/dmitrijs2005/rush/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account models.Account) (models.AccountID, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
}
