package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/logging"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/dmitrijs2005/rush/internal/server/storage"
)

// ErrGeneratorUnavailable is returned by AddGenerated when no generator is
// configured.
var ErrGeneratorUnavailable = errors.New("answer generator is not configured")

// AnswerGenerator produces an answer text for a question text.
type AnswerGenerator interface {
	Generate(ctx context.Context, question string) (string, error)
}

type AnswerService struct {
	repo      storage.Repository
	generator AnswerGenerator
	logger    logging.Logger
}

// NewAnswerService builds the service. generator may be nil.
func NewAnswerService(repo storage.Repository, generator AnswerGenerator, logger logging.Logger) *AnswerService {
	return &AnswerService{repo: repo, generator: generator, logger: logger.With("module", "answers")}
}

func (s *AnswerService) Add(ctx context.Context, accountID models.AccountID, na models.NewAnswer) (models.Answer, error) {
	na.Content = strings.TrimSpace(na.Content)
	if na.Content == "" {
		return models.Answer{}, fmt.Errorf("%w: content is required", common.ErrInvalidArgument)
	}

	a, err := s.repo.AddAnswer(ctx, na, accountID)
	if err != nil {
		return models.Answer{}, err
	}

	s.logger.Info(ctx, "answer added", "answer_id", a.ID, "question_id", a.QuestionID, "account_id", accountID)
	return a, nil
}

// AddGenerated asks the generator to answer question id and stores the
// result on behalf of accountID. Generator failures are returned as is;
// retrying is up to the caller.
func (s *AnswerService) AddGenerated(ctx context.Context, accountID models.AccountID, id models.QuestionID) (models.Answer, error) {
	if s.generator == nil {
		return models.Answer{}, ErrGeneratorUnavailable
	}

	q, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return models.Answer{}, err
	}

	content, err := s.generator.Generate(ctx, q.Content)
	if err != nil {
		s.logger.Warn(ctx, "answer generation failed", "question_id", id, "error", err)
		return models.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	return s.Add(ctx, accountID, models.NewAnswer{Content: content, QuestionID: id})
}
