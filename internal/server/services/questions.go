package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/logging"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/dmitrijs2005/rush/internal/server/storage"
)

// QuestionService serves questions. Updates and deletes pass the
// ownership gate before the store is asked to mutate anything.
type QuestionService struct {
	repo   storage.Repository
	logger logging.Logger
}

func NewQuestionService(repo storage.Repository, logger logging.Logger) *QuestionService {
	return &QuestionService{repo: repo, logger: logger.With("module", "questions")}
}

func (s *QuestionService) List(ctx context.Context, limit *int, offset int) ([]models.Question, error) {
	if offset < 0 || (limit != nil && *limit < 0) {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", common.ErrInvalidArgument)
	}
	return s.repo.GetQuestions(ctx, limit, offset)
}

func (s *QuestionService) Get(ctx context.Context, id models.QuestionID) (models.Question, error) {
	return s.repo.GetQuestion(ctx, id)
}

func (s *QuestionService) Add(ctx context.Context, accountID models.AccountID, nq models.NewQuestion) (models.Question, error) {
	nq.Title = strings.TrimSpace(nq.Title)
	if nq.Title == "" {
		return models.Question{}, fmt.Errorf("%w: title is required", common.ErrInvalidArgument)
	}
	nq.Tags = models.NormalizeTags(nq.Tags)

	q, err := s.repo.AddQuestion(ctx, nq, accountID)
	if err != nil {
		return models.Question{}, err
	}

	s.logger.Info(ctx, "question added", "question_id", q.ID, "account_id", accountID)
	return q, nil
}

func (s *QuestionService) Update(ctx context.Context, accountID models.AccountID, id models.QuestionID, q models.Question) (models.Question, error) {
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return models.Question{}, fmt.Errorf("%w: title is required", common.ErrInvalidArgument)
	}
	q.Tags = models.NormalizeTags(q.Tags)

	if err := s.authorize(ctx, accountID, id); err != nil {
		return models.Question{}, err
	}

	updated, err := s.repo.UpdateQuestion(ctx, q, id, accountID)
	if err != nil {
		return models.Question{}, err
	}

	s.logger.Info(ctx, "question updated", "question_id", id, "account_id", accountID)
	return updated, nil
}

func (s *QuestionService) Delete(ctx context.Context, accountID models.AccountID, id models.QuestionID) error {
	if err := s.authorize(ctx, accountID, id); err != nil {
		return err
	}

	if err := s.repo.DeleteQuestion(ctx, id, accountID); err != nil {
		return err
	}

	s.logger.Info(ctx, "question deleted", "question_id", id, "account_id", accountID)
	return nil
}

// authorize is the ownership gate. A missing question is reported as
// common.ErrNotFound, someone else's as common.ErrUnauthorized.
func (s *QuestionService) authorize(ctx context.Context, accountID models.AccountID, id models.QuestionID) error {
	owner, err := s.repo.IsQuestionOwner(ctx, id, accountID)
	if err != nil {
		return err
	}
	if owner {
		return nil
	}

	if _, err := s.repo.GetQuestion(ctx, id); err != nil {
		return err
	}

	s.logger.Warn(ctx, "ownership check failed", "question_id", id, "account_id", accountID)
	return common.ErrUnauthorized
}
