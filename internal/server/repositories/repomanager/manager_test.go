package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestNewRepositoryManager(t *testing.T) {
	m, err := NewRepositoryManager(DriverPostgres)
	require.NoError(t, err)
	assert.IsType(t, &PostgresRepositoryManager{}, m)

	m, err = NewRepositoryManager(DriverSQLite)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepositoryManager{}, m)

	_, err = NewRepositoryManager("mysql")
	require.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	assert.IsType(t, &users.PostgresRepository{}, (&PostgresRepositoryManager{}).Users(db))
	assert.IsType(t, &users.SQLiteRepository{}, (&SQLiteRepositoryManager{}).Users(db))
}

func TestRunMigrations_Dirs(t *testing.T) {
	tests := []struct {
		name    string
		manager RepositoryManager
		wantDir string
	}{
		{name: "postgres", manager: &PostgresRepositoryManager{}, wantDir: "postgres"},
		{name: "sqlite", manager: &SQLiteRepositoryManager{}, wantDir: "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newDB(t)
			defer db.Close()

			var gotDir string
			stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
				gotDir = dir
				return nil
			})

			require.NoError(t, tt.manager.RunMigrations(context.Background(), db))
			assert.Equal(t, tt.wantDir, gotDir)
		})
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	require.Error(t, err)
}

func TestOpen_SQLiteMigrateAndUse(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	m, err := NewRepositoryManager(DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))

	u, err := m.Users(db).Create(ctx, &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}
