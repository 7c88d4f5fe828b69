package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, migrations.DirSQLite))
	return db
}

func TestSQLite_CreateAssignsIDAndTimestamp(t *testing.T) {
	repo := NewSQLiteRepository(setupSQLite(t))
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	u, err := repo.Create(ctx, &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h1"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Empty(t, u.PasswordHash)
	assert.True(t, u.CreatedAt.After(before), "created_at %v should be recent", u.CreatedAt)

	u2, err := repo.Create(ctx, &models.User{Username: "bob", Email: "bob@x.com", PasswordHash: "h2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), u2.ID)
}

func TestSQLite_Conflicts(t *testing.T) {
	repo := NewSQLiteRepository(setupSQLite(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Username: "bob", Email: "alice@x.com", PasswordHash: "h"})
	var conflict *common.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	_, err = repo.Create(ctx, &models.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
}

func TestSQLite_Lookups(t *testing.T) {
	repo := NewSQLiteRepository(setupSQLite(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h1"})
	require.NoError(t, err)

	byEmail, err := repo.GetUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "h1", byEmail.PasswordHash)
	assert.True(t, created.CreatedAt.Equal(byEmail.CreatedAt))

	byID, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice@x.com", byID.Email)
	assert.Empty(t, byID.PasswordHash)

	missing, err := repo.GetUserByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = repo.GetUserByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLite_ConcurrentDuplicateEmailHasOneWinner(t *testing.T) {
	repo := NewSQLiteRepository(setupSQLite(t))
	ctx := context.Background()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &models.User{
				Username:     fmt.Sprintf("user%d", i),
				Email:        "race@x.com",
				PasswordHash: "h",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, common.ErrorAlreadyExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, conflicts)
}

func TestSQLite_ClosedDBIsOpaqueError(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrorAlreadyExists))

	_, err = repo.GetUserByEmail(context.Background(), "alice@x.com")
	require.Error(t, err)
}
