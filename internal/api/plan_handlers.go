package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/StartupBuilder-io/startupbuilder/internal/ai"
	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/StartupBuilder-io/startupbuilder/internal/plans"
	"github.com/StartupBuilder-io/startupbuilder/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GeneratePlanHandler turns a free-form idea into a persisted business plan.
func (api *Api) GeneratePlanHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req struct {
		Idea string `json:"idea"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	plan, err := api.plans.Generate(r.Context(), claims.UserID, req.Idea)
	if err != nil {
		api.planError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        plan.ID,
		"idea":      plan.Idea,
		"result":    plan.Result,
		"createdAt": plan.CreatedAt,
	})
}

// PlanHistoryHandler returns the caller's recent plans, newest first.
func (api *Api) PlanHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	history, err := api.store.ListPlans(r.Context(), claims.UserID)
	if err != nil {
		api.internalError(w, "plan list failed", err)
		return
	}
	if history == nil {
		history = []models.BusinessPlan{}
	}
	writeJSON(w, http.StatusOK, history)
}

// GetPlanHandler returns one owned plan.
func (api *Api) GetPlanHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	planID := chi.URLParam(r, "id")

	plan, err := api.store.GetPlan(r.Context(), planID, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plano não encontrado")
			return
		}
		api.internalError(w, "plan lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// ExportPlanPDFHandler streams an owned plan as a PDF attachment.
func (api *Api) ExportPlanPDFHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	planID := chi.URLParam(r, "id")

	plan, err := api.store.GetPlan(r.Context(), planID, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plano não encontrado")
			return
		}
		api.internalError(w, "plan lookup failed", err)
		return
	}

	pdf, err := plans.RenderPDF(plan.Result, plan.Idea)
	if err != nil {
		api.internalError(w, "pdf render failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", plans.ExportFilename(plan.Result)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		api.log.Warn("pdf write aborted", zap.Error(err))
	}
}

func (api *Api) planError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, plans.ErrIdeaTooShort):
		writeError(w, http.StatusBadRequest, "Descreva sua ideia com pelo menos 10 caracteres")
	case errors.Is(err, plans.ErrBadModelOutput):
		writeError(w, http.StatusInternalServerError, "Erro ao processar resposta da IA. Tente novamente.")
	case errors.Is(err, ai.ErrRateLimited):
		writeError(w, http.StatusInternalServerError,
			"Ops! Nossa cota de inteligência atingiu o limite por agora. Tente novamente em alguns minutos.")
	case errors.Is(err, ai.ErrProviderAuth):
		writeError(w, http.StatusInternalServerError,
			"Erro de autenticação com a IA. Verifique a chave de API.")
	default:
		api.log.Error("plan generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError,
			"Falha ao gerar o plano de negócios. Tente novamente em instantes.")
	}
}
