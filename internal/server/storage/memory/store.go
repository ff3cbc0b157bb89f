// Package memory is the in-memory backend of the data access port.
//
// Questions, answers and accounts live in independent collections, each
// behind its own RWMutex; question and answer ids come from separate
// sequences. When two collections are locked together the order is always
// questions before answers.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/dmitrijs2005/rush/internal/server/storage"
)

var _ storage.Repository = (*Store)(nil)

// Store is safe for concurrent use. Nothing it returns aliases its state.
type Store struct {
	questionsMu sync.RWMutex
	questions   map[models.QuestionID]models.Question

	answersMu sync.RWMutex
	answers   map[models.AnswerID]models.Answer

	// Accounts are never removed, so an account id is its position + 1.
	accountsMu sync.RWMutex
	accounts   []models.Account

	questionSeq *sequence
	answerSeq   *sequence
}

// New creates a store holding seed. Seeded questions keep their ids, and
// new questions are numbered after the highest of them. Seeds without an
// id are numbered in order.
func New(seed ...models.Question) *Store {
	var maxID models.QuestionID
	for _, q := range seed {
		maxID = max(maxID, q.ID)
	}

	s := &Store{
		questions:   make(map[models.QuestionID]models.Question, len(seed)),
		answers:     make(map[models.AnswerID]models.Answer),
		questionSeq: newSequence(int64(maxID) + 1),
		answerSeq:   newSequence(1),
	}

	for _, q := range seed {
		q = q.Clone()
		if q.ID <= 0 {
			q.ID = models.QuestionID(s.questionSeq.Next())
		}
		s.questions[q.ID] = q
	}

	return s
}

func (s *Store) GetQuestions(ctx context.Context, limit *int, offset int) ([]models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.questionsMu.RLock()
	all := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		all = append(all, q.Clone())
	}
	s.questionsMu.RUnlock()

	slices.SortFunc(all, func(a, b models.Question) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return paginate(all, limit, offset), nil
}

func paginate(all []models.Question, limit *int, offset int) []models.Question {
	offset = max(offset, 0)
	if offset >= len(all) {
		return []models.Question{}
	}
	all = all[offset:]
	if limit != nil && *limit < len(all) {
		all = all[:max(*limit, 0)]
	}
	return all
}

func (s *Store) GetQuestion(ctx context.Context, id models.QuestionID) (models.Question, error) {
	if err := ctx.Err(); err != nil {
		return models.Question{}, err
	}

	s.questionsMu.RLock()
	defer s.questionsMu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return models.Question{}, common.ErrNotFound
	}
	return q.Clone(), nil
}

func (s *Store) IsQuestionOwner(ctx context.Context, id models.QuestionID, accountID models.AccountID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.questionsMu.RLock()
	defer s.questionsMu.RUnlock()

	q, ok := s.questions[id]
	return ok && q.AccountID == accountID, nil
}

func (s *Store) AddQuestion(ctx context.Context, nq models.NewQuestion, accountID models.AccountID) (models.Question, error) {
	if err := ctx.Err(); err != nil {
		return models.Question{}, err
	}

	q := models.Question{
		ID:        models.QuestionID(s.questionSeq.Next()),
		Title:     nq.Title,
		Content:   nq.Content,
		Tags:      slices.Clone(nq.Tags),
		AccountID: accountID,
	}

	s.questionsMu.Lock()
	s.questions[q.ID] = q
	s.questionsMu.Unlock()

	return q.Clone(), nil
}

func (s *Store) UpdateQuestion(ctx context.Context, q models.Question, id models.QuestionID, accountID models.AccountID) (models.Question, error) {
	if err := ctx.Err(); err != nil {
		return models.Question{}, err
	}

	s.questionsMu.Lock()
	defer s.questionsMu.Unlock()

	existing, ok := s.questions[id]
	if !ok {
		return models.Question{}, common.ErrNotFound
	}
	if existing.AccountID != accountID {
		return models.Question{}, common.ErrUnauthorized
	}

	updated := models.Question{
		ID:        id,
		Title:     q.Title,
		Content:   q.Content,
		Tags:      slices.Clone(q.Tags),
		AccountID: existing.AccountID,
	}
	s.questions[id] = updated

	return updated.Clone(), nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id models.QuestionID, accountID models.AccountID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.questionsMu.Lock()
	defer s.questionsMu.Unlock()

	existing, ok := s.questions[id]
	if !ok {
		return common.ErrNotFound
	}
	if existing.AccountID != accountID {
		return common.ErrUnauthorized
	}

	s.answersMu.Lock()
	for aid, a := range s.answers {
		if a.QuestionID == id {
			delete(s.answers, aid)
		}
	}
	s.answersMu.Unlock()

	delete(s.questions, id)
	return nil
}

func (s *Store) AddAnswer(ctx context.Context, na models.NewAnswer, accountID models.AccountID) (models.Answer, error) {
	if err := ctx.Err(); err != nil {
		return models.Answer{}, err
	}

	// Held until the answer is in place so the question cannot vanish.
	s.questionsMu.RLock()
	defer s.questionsMu.RUnlock()

	if _, ok := s.questions[na.QuestionID]; !ok {
		return models.Answer{}, common.ErrNotFound
	}

	a := models.Answer{
		ID:         models.AnswerID(s.answerSeq.Next()),
		Content:    na.Content,
		QuestionID: na.QuestionID,
		AccountID:  accountID,
	}

	s.answersMu.Lock()
	s.answers[a.ID] = a
	s.answersMu.Unlock()

	return a, nil
}

func (s *Store) AddAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	for _, a := range s.accounts {
		if a.Email == account.Email {
			return models.Account{}, common.ErrDuplicateAccount
		}
	}

	account.ID = models.AccountID(len(s.accounts) + 1)
	s.accounts = append(s.accounts, account)

	return account, nil
}

func (s *Store) GetAccount(ctx context.Context, email string) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()

	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Account{}, common.ErrNotFound
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
