package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/dbx"
	"github.com/dzikiwschod/clubapp/internal/server/models"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/codes"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/users"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestManagers_ImplementInterface(t *testing.T) {
	var _ RepositoryManager = &PostgresRepositoryManager{}
	var _ RepositoryManager = &InMemoryRepositoryManager{}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(db)

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &codes.PostgresRepository{}, m.Codes(db))
	assert.Equal(t, dbx.DBTX(db), m.Conn())
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, m.WithTx(context.Background(), func(context.Context, dbx.DBTX) error { return nil }))

	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("boom")
	err := m.WithTx(context.Background(), func(context.Context, dbx.DBTX) error { return boom })
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInMemoryManager(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx))
	assert.Nil(t, m.Conn())
	assert.Same(t, m.Users(nil), m.Users(m.Conn()))
	assert.Same(t, m.Codes(nil), m.Codes(nil))

	called := false
	require.NoError(t, m.WithTx(ctx, func(context.Context, dbx.DBTX) error { called = true; return nil }))
	assert.True(t, called)
	assert.NoError(t, m.Close())
}

func TestInMemoryManager_WithTxRollsBackOnError(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	ctx := context.Background()
	boom := errors.New("boom")

	err := m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := m.Users(tx).Create(ctx, &models.User{ID: "u1", Email: "jan@club.pl"})
		require.NoError(t, err)
		require.NoError(t, m.Codes(tx).Save(ctx, "u1", "123456", time.Now().Add(time.Minute)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = m.Users(nil).GetUserByEmail(ctx, "jan@club.pl")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = m.Codes(nil).Find(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := m.Users(tx).Create(ctx, &models.User{ID: "u1", Email: "jan@club.pl"})
		return err
	}))
	_, err = m.Users(nil).GetUserByEmail(ctx, "jan@club.pl")
	assert.NoError(t, err, "committed work stays")
}
