package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/StartupBuilder-io/startupbuilder/internal/auth"
	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/StartupBuilder-io/startupbuilder/internal/store"
	"go.uber.org/zap"
)

const minPasswordLen = 6

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterHandler creates an account and returns a session token.
func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Nome, email e senha são obrigatórios")
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, "Senha deve ter pelo menos 6 caracteres")
		return
	}

	taken, err := api.store.HasEmail(r.Context(), req.Email)
	if err != nil {
		api.internalError(w, "registration email check failed", err)
		return
	}
	if taken {
		writeError(w, http.StatusConflict, "Email já cadastrado")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		api.internalError(w, "password hash failed", err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := api.store.CreateUser(r.Context(), user); err != nil {
		api.internalError(w, "user creation failed", err)
		return
	}

	token, err := api.tokens.Generate(user)
	if err != nil {
		api.internalError(w, "token generation failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// LoginHandler validates credentials and returns a session token.
func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email e senha são obrigatórios")
		return
	}

	user, err := api.store.GetUserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Email ou senha incorretos")
			return
		}
		api.internalError(w, "login lookup failed", err)
		return
	}

	if user.Status != models.StatusActive {
		msg, ok := statusMessages[user.Status]
		if !ok {
			msg = "Sua conta não está ativa."
		}
		writeError(w, http.StatusForbidden, msg)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Email ou senha incorretos")
		return
	}

	token, err := api.tokens.Generate(user)
	if err != nil {
		api.internalError(w, "token generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// MeHandler returns the current user profile.
func (api *Api) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	user, err := api.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		api.internalError(w, "profile lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdatePreferencesHandler stores the caller's assistant preferences.
func (api *Api) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req struct {
		Preferences string `json:"preferences"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	if err := api.store.UpdateUserPreferences(r.Context(), claims.UserID, req.Preferences); err != nil {
		api.internalError(w, "preferences update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Preferências atualizadas"})
}

func (api *Api) internalError(w http.ResponseWriter, msg string, err error) {
	api.log.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
}
