// Package users is the credential store: persistence of user records over
// database/sql, with PostgreSQL and SQLite implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists user records.
//
// Create is atomic with respect to the unique indexes on username and email:
// of two concurrent inserts sharing either value exactly one succeeds and the
// other gets a *common.ConflictError naming the field.
//
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
