package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/netx"
)

const (
	pathRegister = "/api/auth/register"
	pathLogin    = "/api/auth/login"
	pathProfile  = "/api/auth/profile"
	pathHealth   = "/api/health"
)

// HTTPClient implements Client over the JSON HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the server at baseURL
// (e.g. "http://127.0.0.1:5000"). timeout bounds each request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*Session, error) {
	req := map[string]string{"username": username, "email": email, "password": password}

	var s Session
	if err := c.call(ctx, http.MethodPost, pathRegister, "", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	req := map[string]string{"email": email, "password": password}

	var s Session
	if err := c.call(ctx, http.MethodPost, pathLogin, "", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Profile fetches the session's user. An inactive session fails with
// ErrUnauthorized without contacting the server.
func (c *HTTPClient) Profile(ctx context.Context, session *Session) (*User, error) {
	if !session.Active() {
		return nil, ErrUnauthorized
	}

	var u User
	if err := c.call(ctx, http.MethodGet, pathProfile, session.Token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.call(ctx, http.MethodGet, pathHealth, "", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *HTTPClient) call(ctx context.Context, method, path, token string, in, out any) error {
	status, body, err := netx.DoJSON(ctx, c.http, method, c.baseURL+path, token, in)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if status >= 200 && status < 300 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: decode reply: %v", ErrServer, err)
		}
		return nil
	}

	return decodeError(status, body)
}

func decodeError(status int, body []byte) error {
	var reply struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(body, &reply)

	return &APIError{
		Status:  status,
		Message: reply.Error,
		Fields:  reply.Fields,
		kind:    kindFor(status),
	}
}

func kindFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return ErrServer
	}
}
