package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/finapp/internal/dbx"
	"github.com/dmitrijs2005/finapp/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/finapp/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/finapp/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
