package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token", nil)
		return
	}

	user, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Message: "server is running"})
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Internal
// details never reach the body.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError

	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if errors.Is(err, common.ErrorAlreadyExists) {
			status = http.StatusConflict
		}
		writeError(w, status, verr.Message(), verr.Map())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error(), nil)
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "user not found", nil)
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	writeJSON(w, status, errorResponse{Error: msg, Fields: fields})
}
