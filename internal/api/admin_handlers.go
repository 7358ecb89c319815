package api

import (
	"errors"
	"net/http"

	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/StartupBuilder-io/startupbuilder/internal/store"
	"github.com/go-chi/chi/v5"
)

// ListUsersHandler returns every account. Admin only.
func (api *Api) AdminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := api.store.ListUsers(r.Context())
	if err != nil {
		api.internalError(w, "user list failed", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateUserRoleHandler changes a user's role. An admin cannot remove
// their own admin role.
func (api *Api) AdminUpdateRoleHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Role inválida")
		return
	}

	if guardSelfChange(claims.UserID, targetID, role != models.RoleAdmin) {
		writeError(w, http.StatusBadRequest, "Você não pode remover seu próprio acesso de Admin.")
		return
	}

	if err := api.store.UpdateUserRole(r.Context(), targetID, role); err != nil {
		api.adminError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateUserStatusHandler changes a user's lifecycle status. An admin
// cannot block or deactivate their own account.
func (api *Api) AdminUpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Status inválido")
		return
	}

	if guardSelfChange(claims.UserID, targetID, status != models.StatusActive) {
		writeError(w, http.StatusBadRequest, "Você não pode bloquear ou desativar sua própria conta admin.")
		return
	}

	if err := api.store.UpdateUserStatus(r.Context(), targetID, status); err != nil {
		api.adminError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateUserPlanHandler changes a user's subscription plan.
func (api *Api) AdminUpdatePlanHandler(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	var req struct {
		Plan string `json:"plan"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	plan, err := models.ParsePlan(req.Plan)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Plano inválido")
		return
	}

	if err := api.store.UpdateUserPlan(r.Context(), targetID, plan); err != nil {
		api.adminError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteUserHandler removes an account and everything it owns. An admin
// cannot delete their own account.
func (api *Api) AdminDeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	if guardSelfChange(claims.UserID, targetID, true) {
		writeError(w, http.StatusBadRequest, "Você não pode deletar sua própria conta admin.")
		return
	}

	if err := api.store.DeleteUser(r.Context(), targetID); err != nil {
		api.adminError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (api *Api) adminError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Usuário não encontrado")
		return
	}
	api.internalError(w, "admin operation failed", err)
}
