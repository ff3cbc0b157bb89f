package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/logging"
	"github.com/dmitrijs2005/rush/internal/server/auth"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/dmitrijs2005/rush/internal/server/storage"
	"github.com/dmitrijs2005/rush/internal/server/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyRepo counts mutations and can inject failures on top of a memory store.
type spyRepo struct {
	storage.Repository

	updates, deletes int
	getAccountErr    error
	ownerErr         error
}

func newSpyRepo(seed ...models.Question) *spyRepo {
	return &spyRepo{Repository: memory.New(seed...)}
}

func (s *spyRepo) UpdateQuestion(ctx context.Context, q models.Question, id models.QuestionID, accountID models.AccountID) (models.Question, error) {
	s.updates++
	return s.Repository.UpdateQuestion(ctx, q, id, accountID)
}

func (s *spyRepo) DeleteQuestion(ctx context.Context, id models.QuestionID, accountID models.AccountID) error {
	s.deletes++
	return s.Repository.DeleteQuestion(ctx, id, accountID)
}

func (s *spyRepo) GetAccount(ctx context.Context, email string) (models.Account, error) {
	if s.getAccountErr != nil {
		return models.Account{}, s.getAccountErr
	}
	return s.Repository.GetAccount(ctx, email)
}

func (s *spyRepo) IsQuestionOwner(ctx context.Context, id models.QuestionID, accountID models.AccountID) (bool, error) {
	if s.ownerErr != nil {
		return false, s.ownerErr
	}
	return s.Repository.IsQuestionOwner(ctx, id, accountID)
}

func newAccountService(t *testing.T, repo storage.Repository) (*AccountService, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)
	return NewAccountService(repo, tokens, logging.Discard()), tokens
}

// --- accounts ---

func TestRegisterThenLogin(t *testing.T) {
	svc, tokens := newAccountService(t, newSpyRepo())
	ctx := context.Background()

	acc, err := svc.Register(ctx, models.Credentials{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.AccountID(1), acc.ID)
	assert.NotEqual(t, "pw", acc.PasswordHash)

	token, err := svc.Login(ctx, models.Credentials{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	session, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, session.AccountID)

	viaSvc, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session, viaSvc)

	_, err = svc.Login(ctx, models.Credentials{Email: "a@b.com", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrWrongPassword)
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newAccountService(t, newSpyRepo())

	_, err := svc.Login(context.Background(), models.Credentials{Email: "ghost@b.com", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrWrongPassword)
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	svc, _ := newAccountService(t, newSpyRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, models.Credentials{Email: " A@B.com ", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.Credentials{Email: "a@b.COM", Password: "pw"})
	assert.NoError(t, err)
}

func TestLogin_StoreErrorPassesThrough(t *testing.T) {
	repo := newSpyRepo()
	repo.getAccountErr = common.NewStoreError("select account", errors.New("db down"))
	svc, _ := newAccountService(t, repo)

	_, err := svc.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrStore)
}

func TestLogin_CorruptStoredHash(t *testing.T) {
	repo := newSpyRepo()
	_, err := repo.AddAccount(context.Background(), models.Account{Email: "a@b.com", PasswordHash: "plaintext"})
	require.NoError(t, err)
	svc, _ := newAccountService(t, repo)

	_, err = svc.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "plaintext"})
	assert.ErrorIs(t, err, common.ErrHashing)
}

func TestRegister_Errors(t *testing.T) {
	svc, _ := newAccountService(t, newSpyRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, models.Credentials{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, models.Credentials{Email: "a@b.com", Password: "other"})
	assert.ErrorIs(t, err, common.ErrDuplicateAccount)

	_, err = svc.Register(ctx, models.Credentials{Email: "  ", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.Register(ctx, models.Credentials{Email: "c@d.com"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestRegister_HashingFailure(t *testing.T) {
	orig := hashPassword
	hashPassword = func([]byte) (string, error) { return "", common.ErrHashing }
	t.Cleanup(func() { hashPassword = orig })

	repo := newSpyRepo()
	svc, _ := newAccountService(t, repo)

	_, err := svc.Register(context.Background(), models.Credentials{Email: "a@b.com", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrHashing)

	_, err = repo.GetAccount(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// --- questions ---

func TestQuestionScenario_NonOwnerNeverReachesStore(t *testing.T) {
	repo := newSpyRepo()
	svc := NewQuestionService(repo, logging.Discard())
	ctx := context.Background()

	q, err := svc.Add(ctx, 1, models.NewQuestion{Title: "T", Content: "C", Tags: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, models.Question{ID: 1, Title: "T", Content: "C", Tags: []string{"x"}, AccountID: 1}, q)

	_, err = svc.Update(ctx, 2, q.ID, models.Question{Title: "hijack", Content: "C"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 0, repo.updates)

	err = svc.Delete(ctx, 2, q.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 0, repo.deletes)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q, got)
}

func TestQuestionService_OwnerUpdatesAndDeletes(t *testing.T) {
	repo := newSpyRepo()
	svc := NewQuestionService(repo, logging.Discard())
	ctx := context.Background()

	q, err := svc.Add(ctx, 1, models.NewQuestion{Title: "T", Content: "C"})
	require.NoError(t, err)

	upd, err := svc.Update(ctx, 1, q.ID, models.Question{Title: " T2 ", Content: "C2", Tags: []string{"b", "a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, models.Question{ID: q.ID, Title: "T2", Content: "C2", Tags: []string{"a", "b"}, AccountID: 1}, upd)
	assert.Equal(t, 1, repo.updates)

	require.NoError(t, svc.Delete(ctx, 1, q.ID))
	assert.Equal(t, 1, repo.deletes)

	_, err = svc.Get(ctx, q.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestQuestionService_MissingQuestion(t *testing.T) {
	repo := newSpyRepo()
	svc := NewQuestionService(repo, logging.Discard())
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, 42, models.Question{Title: "T"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1, 42), common.ErrNotFound)
	assert.Zero(t, repo.updates+repo.deletes)
}

func TestQuestionService_SeededQuestionsAreReadOnly(t *testing.T) {
	repo := newSpyRepo(models.Question{ID: 1, Title: "seeded"})
	svc := NewQuestionService(repo, logging.Discard())

	_, err := svc.Update(context.Background(), 1, 1, models.Question{Title: "T"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestQuestionService_OwnerCheckError(t *testing.T) {
	repo := newSpyRepo()
	repo.ownerErr = common.NewStoreError("select question owner", errors.New("db down"))
	svc := NewQuestionService(repo, logging.Discard())

	_, err := svc.Update(context.Background(), 1, 1, models.Question{Title: "T"})
	assert.ErrorIs(t, err, common.ErrStore)
	assert.Zero(t, repo.updates)
}

func TestQuestionService_Validation(t *testing.T) {
	svc := NewQuestionService(newSpyRepo(), logging.Discard())
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, models.NewQuestion{Title: "  "})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.Update(ctx, 1, 1, models.Question{})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	neg := -1
	_, err = svc.List(ctx, &neg, 0)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = svc.List(ctx, nil, -1)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestQuestionService_List(t *testing.T) {
	svc := NewQuestionService(newSpyRepo(
		models.Question{ID: 1, Title: "a"},
		models.Question{ID: 2, Title: "b"},
		models.Question{ID: 3, Title: "c"},
	), logging.Discard())

	limit := 1
	got, err := svc.List(context.Background(), &limit, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Title)
}

// --- answers ---

type fakeGenerator struct {
	out    string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, question string) (string, error) {
	f.prompt = question
	return f.out, f.err
}

func TestAnswerService_Add(t *testing.T) {
	repo := newSpyRepo(models.Question{ID: 1, Title: "T", Content: "C"})
	svc := NewAnswerService(repo, nil, logging.Discard())
	ctx := context.Background()

	a, err := svc.Add(ctx, 3, models.NewAnswer{Content: " 42 ", QuestionID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.Answer{ID: 1, Content: "42", QuestionID: 1, AccountID: 3}, a)

	_, err = svc.Add(ctx, 3, models.NewAnswer{Content: "x", QuestionID: 9})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Add(ctx, 3, models.NewAnswer{QuestionID: 1})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestAnswerService_AddGenerated(t *testing.T) {
	ctx := context.Background()

	t.Run("stores generated text", func(t *testing.T) {
		gen := &fakeGenerator{out: "use a mutex"}
		svc := NewAnswerService(newSpyRepo(models.Question{ID: 1, Title: "T", Content: "how to share state?"}), gen, logging.Discard())

		a, err := svc.AddGenerated(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, "how to share state?", gen.prompt)
		assert.Equal(t, models.Answer{ID: 1, Content: "use a mutex", QuestionID: 1, AccountID: 2}, a)
	})

	t.Run("no generator", func(t *testing.T) {
		svc := NewAnswerService(newSpyRepo(), nil, logging.Discard())
		_, err := svc.AddGenerated(ctx, 2, 1)
		assert.ErrorIs(t, err, ErrGeneratorUnavailable)
	})

	t.Run("missing question", func(t *testing.T) {
		gen := &fakeGenerator{out: "x"}
		svc := NewAnswerService(newSpyRepo(), gen, logging.Discard())
		_, err := svc.AddGenerated(ctx, 2, 1)
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.Empty(t, gen.prompt)
	})

	t.Run("generator failure", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		svc := NewAnswerService(newSpyRepo(models.Question{ID: 1, Title: "T", Content: "C"}), &fakeGenerator{err: boom}, logging.Discard())
		_, err := svc.AddGenerated(ctx, 2, 1)
		assert.ErrorIs(t, err, boom)
	})
}
