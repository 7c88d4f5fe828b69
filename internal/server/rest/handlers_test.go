package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	registerOut *services.AuthResult
	registerErr error
	loginOut    *services.AuthResult
	loginErr    error
	verifyID    int64
	verifyErr   error
	profileOut  *models.User
	profileErr  error

	gotProfileID int64
	gotToken     string
}

func (f *fakeAuth) Register(ctx context.Context, username, email, password string) (*services.AuthResult, error) {
	return f.registerOut, f.registerErr
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeAuth) VerifyToken(ctx context.Context, token string) (int64, error) {
	f.gotToken = token
	return f.verifyID, f.verifyErr
}

func (f *fakeAuth) GetProfile(ctx context.Context, id int64) (*models.User, error) {
	f.gotProfileID = id
	return f.profileOut, f.profileErr
}

func do(t *testing.T, h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func newTestServer(f *fakeAuth) *Server {
	return NewServer("127.0.0.1:0", logging.Nop(), f, Options{})
}

var alice = &models.User{ID: 1, Username: "alice", Email: "alice@x.com", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

func TestRegister_Created(t *testing.T) {
	f := &fakeAuth{registerOut: &services.AuthResult{Token: "tok", User: alice}}
	rec := do(t, newTestServer(f).Handler(), http.MethodPost, "/api/auth/register",
		registerRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "tok", got["token"])
	user := got["user"].(map[string]any)
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "PasswordHash")
}

func TestRegister_ErrorMapping(t *testing.T) {
	verr := common.NewValidationError()
	verr.Add("username", "username is required")
	verr.Add("password", "password must be at least 6 characters")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantFields map[string]string
	}{
		{
			name:       "validation",
			err:        verr,
			wantStatus: http.StatusBadRequest,
			wantError:  "username is required",
			wantFields: map[string]string{"username": "username is required", "password": "password must be at least 6 characters"},
		},
		{
			name:       "conflict",
			err:        (&common.ConflictError{Field: "email"}).AsValidation(),
			wantStatus: http.StatusConflict,
			wantError:  "email already registered",
			wantFields: map[string]string{"email": "email already registered"},
		},
		{
			name:       "internal",
			err:        common.ErrorInternal,
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
		{
			name:       "unexpected error text is not leaked",
			err:        errors.New("pq: connection refused at 10.0.0.5"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAuth{registerErr: tt.err}
			rec := do(t, newTestServer(f).Handler(), http.MethodPost, "/api/auth/register",
				registerRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"}, nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			e := decodeError(t, rec)
			assert.Equal(t, tt.wantError, e.Error)
			assert.Equal(t, tt.wantFields, e.Fields)
		})
	}
}

func TestRegister_BadBody(t *testing.T) {
	rec := do(t, newTestServer(&fakeAuth{}).Handler(), http.MethodPost, "/api/auth/register", "{not json", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rec).Error)
}

func TestLogin(t *testing.T) {
	f := &fakeAuth{loginOut: &services.AuthResult{Token: "tok", User: alice}}
	rec := do(t, newTestServer(f).Handler(), http.MethodPost, "/api/auth/login",
		loginRequest{Email: "alice@x.com", Password: "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	f = &fakeAuth{loginErr: common.ErrorUnauthorized}
	rec = do(t, newTestServer(f).Handler(), http.MethodPost, "/api/auth/login",
		loginRequest{Email: "alice@x.com", Password: "nope"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeError(t, rec).Error)
}

func TestProfile(t *testing.T) {
	f := &fakeAuth{verifyID: 7, profileOut: alice}
	rec := do(t, newTestServer(f).Handler(), http.MethodGet, "/api/auth/profile", nil,
		map[string]string{"Authorization": "Bearer abc.def.ghi"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc.def.ghi", f.gotToken)
	assert.Equal(t, int64(7), f.gotProfileID)
}

func TestProfile_Unauthorized(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		verify error
	}{
		{name: "no header"},
		{name: "wrong scheme", header: map[string]string{"Authorization": "Basic Zm9vOmJhcg=="}},
		{name: "empty bearer", header: map[string]string{"Authorization": "Bearer "}},
		{name: "rejected token", header: map[string]string{"Authorization": "Bearer bad"}, verify: common.ErrorUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAuth{verifyErr: tt.verify}
			rec := do(t, newTestServer(f).Handler(), http.MethodGet, "/api/auth/profile", nil, tt.header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Zero(t, f.gotProfileID)
		})
	}
}

func TestProfile_NotFound(t *testing.T) {
	f := &fakeAuth{verifyID: 42, profileErr: common.ErrorNotFound}
	rec := do(t, newTestServer(f).Handler(), http.MethodGet, "/api/auth/profile", nil,
		map[string]string{"Authorization": "Bearer tok"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&fakeAuth{}).Handler(), http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "OK", got.Status)
	assert.NotEmpty(t, got.Message)
}

func TestCORSPreflight(t *testing.T) {
	h := NewServer("127.0.0.1:0", logging.Nop(), &fakeAuth{}, Options{CORSOrigins: []string{"http://localhost:3000"}}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
