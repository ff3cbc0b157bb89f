package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/dbx"
	"github.com/dmitrijs2005/rush/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts account and returns its id. A taken email yields
// common.ErrDuplicateAccount.
func (r *PostgresRepository) Create(ctx context.Context, account models.Account) (models.AccountID, error) {
	query :=
		`INSERT INTO accounts (email, password_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING id
		 `

	var id models.AccountID
	err := r.db.QueryRowContext(ctx, query, account.Email, account.PasswordHash).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrDuplicateAccount
		}
		return 0, common.NewStoreError("insert account", err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	query :=
		`SELECT id, email, password_hash FROM accounts
		 WHERE email = $1
		 `

	var a models.Account
	err := r.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, common.ErrNotFound
		}
		return models.Account{}, common.NewStoreError("select account", err)
	}

	return a, nil
}
