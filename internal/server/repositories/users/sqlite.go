package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteTimeLayout is how created_at is stored in SQLite (TEXT, UTC).
const SQLiteTimeLayout = "2006-01-02T15:04:05.000Z"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var createdAt string
	created := &models.User{Username: user.Username, Email: user.Email}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
		RETURNING id, created_at
	`, user.Username, user.Email, user.PasswordHash).Scan(&created.ID, &createdAt)
	if err != nil {
		if field, ok := sqliteUniqueField(err); ok {
			return nil, &common.ConflictError{Field: field}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if created.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var createdAt string
	user := &models.User{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var createdAt string
	user := &models.User{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, created_at FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Username, &user.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(SQLiteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}

func sqliteUniqueField(err error) (string, bool) {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return "", false
	}
	// message reads "UNIQUE constraint failed: users.email"
	msg := sqlErr.Error()
	switch {
	case sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE:
	case sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "UNIQUE"):
	default:
		return "", false
	}
	return uniqueField(msg)
}
