package repomanager

import (
	"context"
	"database/sql"

	"github.com/studymate-app/studymate/internal/dbx"
	"github.com/studymate-app/studymate/internal/server/repositories/profiles"
	"github.com/studymate-app/studymate/internal/server/repositories/refreshtokens"
	"github.com/studymate-app/studymate/internal/server/repositories/rows"
	"github.com/studymate-app/studymate/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Rows(db dbx.DBTX) rows.Repository
}
