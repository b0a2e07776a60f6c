package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clientbook/clientbook/internal/auth"
	"github.com/clientbook/clientbook/internal/user"
)

const minPasswordLength = 8

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "password must be at least 8 characters")
		return
	}

	u, err := h.deps.Users.Create(r.Context(), user.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusConflict, codeEmailTaken, "email already registered")
			return
		}
		slog.Error("creating user", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
		return
	}

	token, err := h.deps.Auth.IssueToken(u.ID)
	if err != nil {
		slog.Error("issuing token", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: u})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// A missing user and a wrong password produce the same response.
	u, err := h.deps.Users.GetByEmail(r.Context(), email)
	if err != nil || !user.CheckPassword(u, req.Password) {
		if h.deps.Metrics != nil {
			h.deps.Metrics.IncAuthFailure("bad_credentials")
		}
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid email or password")
		return
	}

	token, err := h.deps.Auth.IssueToken(u.ID)
	if err != nil {
		slog.Error("issuing token", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	u, err := h.deps.Users.GetByID(r.Context(), userID)
	if err != nil {
		// The token was valid but the account no longer exists.
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
