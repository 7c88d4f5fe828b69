// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, token verification and
// profile lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/validate"
)

// TokenIssuer signs and verifies session tokens. *auth.TokenManager
// implements it.
type TokenIssuer interface {
	Generate(userID int64) (string, error)
	Parse(token string) (int64, error)
}

// AuthResult is what register and login hand back to the caller.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService provides authentication-related operations:
// - Register: validate, hash, store and issue a token
// - Login: verify credentials and issue a token
// - VerifyToken / GetProfile: resolve a session back to its user
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
	log         logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens TokenIssuer, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		log:         log,
	}
}

// Register creates an account and returns a token for it. Invalid input and
// taken usernames or emails come back as *common.ValidationError; a conflict
// also matches common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if verr := validate.Registration(username, email, password); verr != nil {
		return nil, verr
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "hash password failed", "error", err)
		return nil, common.ErrorInternal
	}

	var result *AuthResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}

		token, err := s.tokens.Generate(user.ID)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}

		result = &AuthResult{Token: token, User: user.Public()}
		return nil
	})
	if err != nil {
		var conflict *common.ConflictError
		if errors.As(err, &conflict) {
			s.log.Info(ctx, "registration rejected", "field", conflict.Field)
			return nil, conflict.AsValidation()
		}
		s.log.Error(ctx, "registration failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user registered", "user_id", result.User.ID)
	return result, nil
}

// Login checks email and password. An unknown email and a wrong password
// both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if verr := validate.Login(email, password); verr != nil {
		return nil, verr
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		s.log.Error(ctx, "lookup user failed", "error", err)
		return nil, common.ErrorInternal
	}

	if user == nil {
		// burn the same bcrypt work as a real comparison
		_, _ = s.hasher.Verify(password, s.getDummyHash())
		s.log.Debug(ctx, "login rejected", "reason", "unknown email")
		return nil, common.ErrorUnauthorized
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "verify password failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		s.log.Debug(ctx, "login rejected", "reason", "password mismatch", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.log.Error(ctx, "generate token failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// VerifyToken returns the user id carried by a valid token. Any failure is
// common.ErrorUnauthorized wrapping common.ErrInvalidToken or
// common.ErrTokenExpired.
func (s *UserService) VerifyToken(ctx context.Context, token string) (int64, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		s.log.Debug(ctx, "token rejected", "error", err)
		return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return id, nil
}

// GetProfile returns the user without its password hash, or
// common.ErrorNotFound.
func (s *UserService) GetProfile(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		s.log.Error(ctx, "lookup user failed", "user_id", id, "error", err)
		return nil, common.ErrorInternal
	}
	if user == nil {
		return nil, common.ErrorNotFound
	}
	return user.Public(), nil
}

func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("dummy-password-for-timing")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
