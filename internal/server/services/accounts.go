// Package services contains server-side business logic: registration,
// login and session resolution, and the question and answer use cases
// including the ownership gate in front of every question mutation.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/cryptox"
	"github.com/dmitrijs2005/rush/internal/logging"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/dmitrijs2005/rush/internal/server/storage"
)

// Tokens issues and validates session tokens.
type Tokens interface {
	Issue(accountID models.AccountID) (string, error)
	Validate(token string) (models.Session, error)
}

// seams for tests
var (
	hashPassword   = cryptox.HashPassword
	verifyPassword = cryptox.VerifyPassword
)

// AccountService handles registration, login and token resolution.
type AccountService struct {
	repo   storage.Repository
	tokens Tokens
	logger logging.Logger

	// decoy is verified against when the email is unknown, so a miss
	// costs as much as a wrong password.
	decoyOnce sync.Once
	decoy     string
}

func NewAccountService(repo storage.Repository, tokens Tokens, logger logging.Logger) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, logger: logger.With("module", "accounts")}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register hashes the password and stores a new account. A taken email
// yields common.ErrDuplicateAccount.
func (s *AccountService) Register(ctx context.Context, c models.Credentials) (models.Account, error) {
	email := normalizeEmail(c.Email)
	if email == "" || c.Password == "" {
		return models.Account{}, fmt.Errorf("%w: email and password are required", common.ErrInvalidArgument)
	}

	hash, err := hashPassword([]byte(c.Password))
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return models.Account{}, err
	}

	account, err := s.repo.AddAccount(ctx, models.Account{Email: email, PasswordHash: hash})
	if err != nil {
		return models.Account{}, err
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID)
	return account, nil
}

// Login verifies the credentials and returns a fresh session token.
// An unknown email and a wrong password both yield common.ErrWrongPassword.
func (s *AccountService) Login(ctx context.Context, c models.Credentials) (string, error) {
	account, err := s.repo.GetAccount(ctx, normalizeEmail(c.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_, _ = verifyPassword(s.decoyHash(), []byte(c.Password))
			return "", common.ErrWrongPassword
		}
		return "", err
	}

	ok, err := verifyPassword(account.PasswordHash, []byte(c.Password))
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", "account_id", account.ID, "error", err)
		return "", err
	}
	if !ok {
		return "", common.ErrWrongPassword
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Debug(ctx, "login succeeded", "account_id", account.ID)
	return token, nil
}

// Authenticate resolves a bearer token into a Session.
func (s *AccountService) Authenticate(_ context.Context, token string) (models.Session, error) {
	return s.tokens.Validate(token)
}

func (s *AccountService) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy, _ = hashPassword([]byte("decoy"))
	})
	return s.decoy
}
