package repomanager

import (
	"context"

	"github.com/dzikiwschod/clubapp/internal/dbx"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/codes"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction, and runs work atomically.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the non-transactional handle to pass to Users and Codes.
	Conn() dbx.DBTX
	Users(db dbx.DBTX) users.Repository
	Codes(db dbx.DBTX) codes.Repository
	// WithTx runs fn atomically. Repositories built from tx see the
	// transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Close() error
}
