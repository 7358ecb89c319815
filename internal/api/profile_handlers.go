package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/StartupBuilder-io/startupbuilder/internal/store"
)

// UpdateProfileHandler accepts a multipart form with an optional display
// name and an optional avatar file. At least one must be present.
func (api *Api) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))

	var avatarURL string
	file, header, err := r.FormFile("avatar")
	switch {
	case err == nil:
		defer file.Close()
		ext := strings.ToLower(filepath.Ext(header.Filename))
		avatarURL, err = api.avatars.Save(r.Context(), claims.UserID, ext, file)
		if err != nil {
			api.internalError(w, "avatar save failed", err)
			return
		}
	case errors.Is(err, http.ErrMissingFile):
		// name-only update
	default:
		writeError(w, http.StatusBadRequest, "Arquivo de avatar inválido")
		return
	}

	if name == "" && avatarURL == "" {
		writeError(w, http.StatusBadRequest, "Nenhum dado para atualizar")
		return
	}

	user, err := api.store.UpdateUserProfile(r.Context(), claims.UserID, name, avatarURL)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		api.internalError(w, "profile update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
