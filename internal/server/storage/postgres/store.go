// Package postgres is the relational backend of the data access port.
//
// Reads go straight to the pool. Question update and delete run in a
// transaction that row-locks the question, checks its owner and mutates.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/dbx"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/dmitrijs2005/rush/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rush/internal/server/storage"
)

var _ storage.Repository = (*Store)(nil)

// seams for tests
var (
	sqlOpen    = sql.Open
	newManager = repomanager.NewPostgresRepositoryManager
)

type Store struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

// New wraps an open pool. It does not run migrations.
func New(db *sql.DB, repos repomanager.RepositoryManager) *Store {
	return &Store{db: db, repos: repos}
}

// Open connects to dsn, checks connectivity and applies all migrations
// before returning, so the store never serves an outdated schema.
func Open(ctx context.Context, dsn string, maxOpenConns int) (*Store, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := New(db, newManager())
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.repos.RunMigrations(ctx, s.db)
}

// Seed imports questions keeping their ids and moves the id sequence past
// them. Rows that already exist are left untouched.
func (s *Store) Seed(ctx context.Context, seed []models.Question) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Questions(tx)
		for _, q := range seed {
			if err := repo.Import(ctx, q); err != nil {
				return err
			}
		}
		return repo.ResetSequence(ctx)
	})
	return wrap("seed questions", err)
}

func (s *Store) GetQuestions(ctx context.Context, limit *int, offset int) ([]models.Question, error) {
	return s.repos.Questions(s.db).List(ctx, limit, offset)
}

func (s *Store) GetQuestion(ctx context.Context, id models.QuestionID) (models.Question, error) {
	return s.repos.Questions(s.db).Get(ctx, id)
}

func (s *Store) IsQuestionOwner(ctx context.Context, id models.QuestionID, accountID models.AccountID) (bool, error) {
	return s.repos.Questions(s.db).IsOwner(ctx, id, accountID)
}

func (s *Store) AddQuestion(ctx context.Context, q models.NewQuestion, accountID models.AccountID) (models.Question, error) {
	return s.repos.Questions(s.db).Create(ctx, q, accountID)
}

func (s *Store) UpdateQuestion(ctx context.Context, q models.Question, id models.QuestionID, accountID models.AccountID) (models.Question, error) {
	var updated models.Question
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Questions(tx)
		if err := checkOwner(ctx, repo.LockOwner, id, accountID); err != nil {
			return err
		}
		var err error
		updated, err = repo.Update(ctx, q, id)
		return err
	})
	if err != nil {
		return models.Question{}, wrap("update question", err)
	}
	return updated, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id models.QuestionID, accountID models.AccountID) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Questions(tx)
		if err := checkOwner(ctx, repo.LockOwner, id, accountID); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	return wrap("delete question", err)
}

func checkOwner(ctx context.Context, lockOwner func(context.Context, models.QuestionID) (models.AccountID, error), id models.QuestionID, accountID models.AccountID) error {
	owner, err := lockOwner(ctx, id)
	if err != nil {
		return err
	}
	if owner != accountID {
		return common.ErrUnauthorized
	}
	return nil
}

func (s *Store) AddAnswer(ctx context.Context, a models.NewAnswer, accountID models.AccountID) (models.Answer, error) {
	return s.repos.Answers(s.db).Create(ctx, a, accountID)
}

func (s *Store) AddAccount(ctx context.Context, account models.Account) (models.Account, error) {
	id, err := s.repos.Accounts(s.db).Create(ctx, account)
	if err != nil {
		return models.Account{}, err
	}
	account.ID = id
	return account, nil
}

func (s *Store) GetAccount(ctx context.Context, email string) (models.Account, error) {
	return s.repos.Accounts(s.db).GetByEmail(ctx, email)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// wrap turns transaction plumbing failures (begin, commit) into store
// errors and passes domain errors through.
func wrap(op string, err error) error {
	if err == nil ||
		errors.Is(err, common.ErrNotFound) ||
		errors.Is(err, common.ErrUnauthorized) ||
		errors.Is(err, common.ErrStore) {
		return err
	}
	return common.NewStoreError(op, err)
}
