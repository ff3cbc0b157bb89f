package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/rush/internal/dbx"
	"github.com/dmitrijs2005/rush/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/rush/internal/server/repositories/answers"
	"github.com/dmitrijs2005/rush/internal/server/repositories/questions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Questions(db dbx.DBTX) questions.Repository
	Answers(db dbx.DBTX) answers.Repository
}
