package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	op  string
	d   time.Duration
	err error
}

type spyRecorder struct{ got []observation }

func (s *spyRecorder) RecordStoreOp(op string, d time.Duration, err error) {
	s.got = append(s.got, observation{op, d, err})
}

// stubRepo answers every call with err.
type stubRepo struct {
	err    error
	closed bool
}

func (s *stubRepo) GetQuestions(context.Context, *int, int) ([]models.Question, error) {
	return []models.Question{{ID: 1}}, s.err
}
func (s *stubRepo) GetQuestion(_ context.Context, id models.QuestionID) (models.Question, error) {
	return models.Question{ID: id}, s.err
}
func (s *stubRepo) IsQuestionOwner(context.Context, models.QuestionID, models.AccountID) (bool, error) {
	return true, s.err
}
func (s *stubRepo) AddQuestion(context.Context, models.NewQuestion, models.AccountID) (models.Question, error) {
	return models.Question{ID: 2}, s.err
}
func (s *stubRepo) UpdateQuestion(_ context.Context, q models.Question, _ models.QuestionID, _ models.AccountID) (models.Question, error) {
	return q, s.err
}
func (s *stubRepo) DeleteQuestion(context.Context, models.QuestionID, models.AccountID) error {
	return s.err
}
func (s *stubRepo) AddAnswer(context.Context, models.NewAnswer, models.AccountID) (models.Answer, error) {
	return models.Answer{ID: 3}, s.err
}
func (s *stubRepo) AddAccount(_ context.Context, a models.Account) (models.Account, error) {
	return a, s.err
}
func (s *stubRepo) GetAccount(_ context.Context, email string) (models.Account, error) {
	return models.Account{Email: email}, s.err
}
func (s *stubRepo) Close() error {
	s.closed = true
	return nil
}

func callAll(t *testing.T, r Repository) {
	t.Helper()
	ctx := context.Background()
	_, _ = r.GetQuestions(ctx, nil, 0)
	_, _ = r.GetQuestion(ctx, 1)
	_, _ = r.IsQuestionOwner(ctx, 1, 1)
	_, _ = r.AddQuestion(ctx, models.NewQuestion{}, 1)
	_, _ = r.UpdateQuestion(ctx, models.Question{}, 1, 1)
	_ = r.DeleteQuestion(ctx, 1, 1)
	_, _ = r.AddAnswer(ctx, models.NewAnswer{}, 1)
	_, _ = r.AddAccount(ctx, models.Account{})
	_, _ = r.GetAccount(ctx, "a@b.com")
}

func TestInstrumented_RecordsEveryOperation(t *testing.T) {
	rec := &spyRecorder{}
	inner := &stubRepo{}
	r := Instrumented(inner, rec)

	callAll(t, r)

	ops := make([]string, 0, len(rec.got))
	for _, o := range rec.got {
		ops = append(ops, o.op)
		assert.NoError(t, o.err)
		assert.GreaterOrEqual(t, o.d, time.Duration(0))
	}
	assert.Equal(t, []string{
		"get_questions", "get_question", "is_question_owner", "add_question", "update_question",
		"delete_question", "add_answer", "add_account", "get_account",
	}, ops)

	require.NoError(t, r.Close())
	assert.True(t, inner.closed)
}

func TestInstrumented_PassesThroughResultsAndErrors(t *testing.T) {
	rec := &spyRecorder{}
	boom := common.NewStoreError("select", errors.New("boom"))
	r := Instrumented(&stubRepo{err: boom}, rec)

	q, err := r.GetQuestion(context.Background(), 7)
	assert.Equal(t, models.QuestionID(7), q.ID)
	assert.ErrorIs(t, err, common.ErrStore)

	require.Len(t, rec.got, 1)
	assert.Equal(t, "get_question", rec.got[0].op)
	assert.ErrorIs(t, rec.got[0].err, common.ErrStore)
}

func TestInstrumented_MeasuresDuration(t *testing.T) {
	rec := &spyRecorder{}
	r := Instrumented(&stubRepo{}, rec).(*instrumented)

	base := time.Unix(0, 0)
	calls := 0
	r.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 5 * time.Millisecond)
	}

	_, _ = r.GetAccount(context.Background(), "x")
	require.Len(t, rec.got, 1)
	assert.Equal(t, 5*time.Millisecond, rec.got[0].d)
}
