package client

import "time"

// User is the public profile returned by the server.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an authenticated identity: the bearer token and the user it was
// issued for. The zero value and nil both mean "logged out".
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Active reports whether s carries a token.
func (s *Session) Active() bool {
	return s != nil && s.Token != ""
}

// Health is the reply of the health endpoint.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
