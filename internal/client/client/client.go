package client

import "context"

// Client is the API surface the CLI depends on.
type Client interface {
	Register(ctx context.Context, username, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Profile(ctx context.Context, session *Session) (*User, error)
	Health(ctx context.Context) (*Health, error)
}
