package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/charkeeper/internal/dbx"
	"github.com/dmitrijs2005/charkeeper/internal/server/repositories/documents"
	"github.com/dmitrijs2005/charkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/charkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Documents(db dbx.DBTX) documents.Repository
}
