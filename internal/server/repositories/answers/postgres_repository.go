package answers

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/dbx"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an answer. An unknown question yields common.ErrNotFound.
func (r *PostgresRepository) Create(ctx context.Context, na models.NewAnswer, accountID models.AccountID) (models.Answer, error) {
	query :=
		`INSERT INTO answers (content, question_id, account_id)
		 VALUES ($1, $2, NULLIF($3::bigint, 0))
		 RETURNING id
		 `

	a := models.Answer{Content: na.Content, QuestionID: na.QuestionID, AccountID: accountID}
	err := r.db.QueryRowContext(ctx, query, na.Content, na.QuestionID, accountID).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return models.Answer{}, common.ErrNotFound
		}
		return models.Answer{}, common.NewStoreError("insert answer", err)
	}

	return a, nil
}
