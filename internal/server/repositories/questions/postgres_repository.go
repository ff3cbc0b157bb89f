package questions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/dbx"
	"github.com/dmitrijs2005/rush/internal/server/models"
)

// Unowned (seeded) questions have a NULL account_id, read back as 0.
const columns = `id, title, content, tags, COALESCE(account_id, 0)`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (models.Question, error) {
	var (
		q    models.Question
		tags []byte
	)
	if err := row.Scan(&q.ID, &q.Title, &q.Content, &tags, &q.AccountID); err != nil {
		return models.Question{}, err
	}
	if err := json.Unmarshal(tags, &q.Tags); err != nil {
		return models.Question{}, fmt.Errorf("decode tags: %w", err)
	}
	if len(q.Tags) == 0 {
		q.Tags = nil
	}
	return q, nil
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// List returns questions ordered by id. A nil limit binds NULL, which
// Postgres treats as no limit.
func (r *PostgresRepository) List(ctx context.Context, limit *int, offset int) ([]models.Question, error) {
	query :=
		`SELECT ` + columns + ` FROM questions
		 ORDER BY id
		 LIMIT $1 OFFSET $2
		 `

	var lim any
	if limit != nil {
		lim = int64(max(*limit, 0))
	}

	rows, err := r.db.QueryContext(ctx, query, lim, int64(max(offset, 0)))
	if err != nil {
		return nil, common.NewStoreError("select questions", err)
	}
	defer rows.Close()

	result := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, common.NewStoreError("scan question", err)
		}
		result = append(result, q)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError("select questions", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id models.QuestionID) (models.Question, error) {
	query :=
		`SELECT ` + columns + ` FROM questions
		 WHERE id = $1
		 `

	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Question{}, common.ErrNotFound
		}
		return models.Question{}, common.NewStoreError("select question", err)
	}

	return q, nil
}

func (r *PostgresRepository) IsOwner(ctx context.Context, id models.QuestionID, accountID models.AccountID) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1 AND account_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id, accountID).Scan(&ok); err != nil {
		return false, common.NewStoreError("select question owner", err)
	}

	return ok, nil
}

// LockOwner returns the owner of question id and row-locks it until the
// surrounding transaction ends.
func (r *PostgresRepository) LockOwner(ctx context.Context, id models.QuestionID) (models.AccountID, error) {
	query :=
		`SELECT COALESCE(account_id, 0) FROM questions
		 WHERE id = $1
		 FOR UPDATE
		 `

	var owner models.AccountID
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, common.NewStoreError("lock question", err)
	}

	return owner, nil
}

func (r *PostgresRepository) Create(ctx context.Context, nq models.NewQuestion, accountID models.AccountID) (models.Question, error) {
	query :=
		`INSERT INTO questions (title, content, tags, account_id)
		 VALUES ($1, $2, $3, NULLIF($4::bigint, 0))
		 RETURNING ` + columns

	tags, err := encodeTags(nq.Tags)
	if err != nil {
		return models.Question{}, common.NewStoreError("encode tags", err)
	}

	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, nq.Title, nq.Content, tags, accountID))
	if err != nil {
		return models.Question{}, common.NewStoreError("insert question", err)
	}

	return q, nil
}

// Update replaces title, content and tags of question id.
func (r *PostgresRepository) Update(ctx context.Context, q models.Question, id models.QuestionID) (models.Question, error) {
	query :=
		`UPDATE questions SET title = $1, content = $2, tags = $3
		 WHERE id = $4
		 RETURNING ` + columns

	tags, err := encodeTags(q.Tags)
	if err != nil {
		return models.Question{}, common.NewStoreError("encode tags", err)
	}

	updated, err := scanQuestion(r.db.QueryRowContext(ctx, query, q.Title, q.Content, tags, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Question{}, common.ErrNotFound
		}
		return models.Question{}, common.NewStoreError("update question", err)
	}

	return updated, nil
}

// Delete removes question id; answers go with it (ON DELETE CASCADE).
func (r *PostgresRepository) Delete(ctx context.Context, id models.QuestionID) error {
	query := `DELETE FROM questions WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return common.NewStoreError("delete question", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return common.NewStoreError("delete question", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

// Import inserts a question with a fixed id. Existing ids are left alone.
func (r *PostgresRepository) Import(ctx context.Context, q models.Question) error {
	query :=
		`INSERT INTO questions (id, title, content, tags, account_id)
		 VALUES ($1, $2, $3, $4, NULLIF($5::bigint, 0))
		 ON CONFLICT (id) DO NOTHING
		 `

	tags, err := encodeTags(q.Tags)
	if err != nil {
		return common.NewStoreError("encode tags", err)
	}

	if _, err := r.db.ExecContext(ctx, query, q.ID, q.Title, q.Content, tags, q.AccountID); err != nil {
		return common.NewStoreError("import question", err)
	}

	return nil
}

// ResetSequence moves the id sequence past the highest stored id so
// imported rows never collide with new ones.
func (r *PostgresRepository) ResetSequence(ctx context.Context) error {
	query :=
		`SELECT setval(pg_get_serial_sequence('questions', 'id'), COALESCE((SELECT MAX(id) FROM questions), 0) + 1, false)`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return common.NewStoreError("reset question sequence", err)
	}

	return nil
}
