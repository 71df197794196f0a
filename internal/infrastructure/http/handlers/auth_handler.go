package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/talhabinhussain/fullstack-todo-app/internal/application/auth"
	domerrors "github.com/talhabinhussain/fullstack-todo-app/internal/domain/errors"
	"github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/http/middleware"
)

// AuthHandler serves /api/auth/register and /api/auth/login. Both bypass
// the guards and answer with a bearer token.
type AuthHandler struct {
	register *auth.Register
	login    *auth.Login
	log      zerolog.Logger
}

func NewAuthHandler(register *auth.Register, login *auth.Login, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{register: register, login: login, log: log}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	email := SanitizeEmail(body.Email)
	result, err := h.register.Execute(r.Context(), auth.RegisterInput{
		Email:    email,
		Password: body.Password,
	})
	if err != nil {
		AuditLog(h.log, r, "user.register", "", false, err.Error())
		middleware.RecordAuthAttempt("register", false)
		switch {
		case errors.Is(err, domerrors.ErrEmailTaken):
			writeErr(w, http.StatusConflict, err.Error())
		case errors.Is(err, domerrors.ErrInvalidEmail),
			errors.Is(err, domerrors.ErrPasswordEmpty),
			errors.Is(err, domerrors.ErrPasswordTooLong):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error().Err(err).Msg("register failed")
			writeErr(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	AuditLog(h.log, r, "user.register", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: result.AccessToken, TokenType: "bearer"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{
		Email:    SanitizeEmail(body.Email),
		Password: body.Password,
	})
	if err != nil {
		AuditLog(h.log, r, "user.login", "", false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		if errors.Is(err, domerrors.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeErr(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	AuditLog(h.log, r, "user.login", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: result.AccessToken, TokenType: "bearer"})
}
