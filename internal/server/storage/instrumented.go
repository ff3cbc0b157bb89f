package storage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/rush/internal/server/models"
)

// Recorder receives one observation per store call.
type Recorder interface {
	RecordStoreOp(op string, duration time.Duration, err error)
}

// Instrumented wraps next so that every call is reported to rec.
func Instrumented(next Repository, rec Recorder) Repository {
	return &instrumented{next: next, rec: rec, now: time.Now}
}

type instrumented struct {
	next Repository
	rec  Recorder
	now  func() time.Time
}

// track starts timing op; the returned func reports the outcome.
func (r *instrumented) track(op string) func(error) {
	start := r.now()
	return func(err error) {
		r.rec.RecordStoreOp(op, r.now().Sub(start), err)
	}
}

func (r *instrumented) GetQuestions(ctx context.Context, limit *int, offset int) ([]models.Question, error) {
	done := r.track("get_questions")
	res, err := r.next.GetQuestions(ctx, limit, offset)
	done(err)
	return res, err
}

func (r *instrumented) GetQuestion(ctx context.Context, id models.QuestionID) (models.Question, error) {
	done := r.track("get_question")
	res, err := r.next.GetQuestion(ctx, id)
	done(err)
	return res, err
}

func (r *instrumented) IsQuestionOwner(ctx context.Context, id models.QuestionID, accountID models.AccountID) (bool, error) {
	done := r.track("is_question_owner")
	res, err := r.next.IsQuestionOwner(ctx, id, accountID)
	done(err)
	return res, err
}

func (r *instrumented) AddQuestion(ctx context.Context, q models.NewQuestion, accountID models.AccountID) (models.Question, error) {
	done := r.track("add_question")
	res, err := r.next.AddQuestion(ctx, q, accountID)
	done(err)
	return res, err
}

func (r *instrumented) UpdateQuestion(ctx context.Context, q models.Question, id models.QuestionID, accountID models.AccountID) (models.Question, error) {
	done := r.track("update_question")
	res, err := r.next.UpdateQuestion(ctx, q, id, accountID)
	done(err)
	return res, err
}

func (r *instrumented) DeleteQuestion(ctx context.Context, id models.QuestionID, accountID models.AccountID) error {
	done := r.track("delete_question")
	err := r.next.DeleteQuestion(ctx, id, accountID)
	done(err)
	return err
}

func (r *instrumented) AddAnswer(ctx context.Context, a models.NewAnswer, accountID models.AccountID) (models.Answer, error) {
	done := r.track("add_answer")
	res, err := r.next.AddAnswer(ctx, a, accountID)
	done(err)
	return res, err
}

func (r *instrumented) AddAccount(ctx context.Context, account models.Account) (models.Account, error) {
	done := r.track("add_account")
	res, err := r.next.AddAccount(ctx, account)
	done(err)
	return res, err
}

func (r *instrumented) GetAccount(ctx context.Context, email string) (models.Account, error) {
	done := r.track("get_account")
	res, err := r.next.GetAccount(ctx, email)
	done(err)
	return res, err
}

func (r *instrumented) Close() error {
	return r.next.Close()
}
