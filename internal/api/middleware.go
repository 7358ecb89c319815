package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/StartupBuilder-io/startupbuilder/internal/auth"
	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/StartupBuilder-io/startupbuilder/internal/store"
	"go.uber.org/zap"
)

type contextKey string

const userContextKey contextKey = "user"

var statusMessages = map[models.Status]string{
	models.StatusBlocked:   "Sua conta foi bloqueada. Entre em contato com o suporte.",
	models.StatusSuspended: "Sua conta está suspensa temporariamente.",
	models.StatusInactive:  "Sua conta foi desativada.",
}

// Authenticator verifies the bearer token and re-checks the live account
// status on every request, so blocking a user takes effect immediately even
// though issued tokens cannot be revoked.
func (api *Api) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Token não fornecido")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Token não fornecido")
			return
		}

		claims, err := api.tokens.Validate(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token inválido ou expirado")
			return
		}

		status, err := api.store.GetUserStatus(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusForbidden, "Sua conta está inativa ou bloqueada.")
				return
			}
			api.log.Error("status lookup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
			return
		}
		if status != models.StatusActive {
			msg, ok := statusMessages[status]
			if !ok {
				msg = "Sua conta não está ativa."
			}
			writeError(w, http.StatusForbidden, msg)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates admin routes. Runs after Authenticator.
func (api *Api) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Acesso negado. Apenas administradores.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext retrieves the authenticated claims set by Authenticator.
func ClaimsFromContext(ctx context.Context) (*auth.TokenClaims, bool) {
	claims, ok := ctx.Value(userContextKey).(*auth.TokenClaims)
	return claims, ok
}

// guardSelfChange rejects an admin mutating their own account when the
// transition would lock out the only privileged actor. There is no
// break-glass account, so self-demotion, self-deactivation and self-delete
// have no recovery path.
func guardSelfChange(actingID, targetID string, locksOut bool) bool {
	return actingID == targetID && locksOut
}
