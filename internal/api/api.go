package api

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/StartupBuilder-io/startupbuilder/internal/ai"
	"github.com/StartupBuilder-io/startupbuilder/internal/auth"
	"github.com/StartupBuilder-io/startupbuilder/internal/chat"
	"github.com/StartupBuilder-io/startupbuilder/internal/config"
	"github.com/StartupBuilder-io/startupbuilder/internal/logger"
	"github.com/StartupBuilder-io/startupbuilder/internal/plans"
	"github.com/StartupBuilder-io/startupbuilder/internal/storage"
	"github.com/StartupBuilder-io/startupbuilder/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Api owns the HTTP surface and its dependencies.
type Api struct {
	Config  *config.Config
	Router  *chi.Mux
	db      *sql.DB
	store   *store.Store
	tokens  *auth.TokenManager
	chats   *chat.Orchestrator
	plans   *plans.Service
	avatars storage.AvatarStore
	log     *zap.Logger
}

// NewApi wires all components and mounts the routes.
func NewApi(cfg *config.Config, db *sql.DB, generator ai.Generator, avatars storage.AvatarStore) (*Api, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwtSecret is required")
	}

	st := store.New(db)
	log := logger.Get()

	api := &Api{
		Config:  cfg,
		Router:  chi.NewRouter(),
		db:      db,
		store:   st,
		tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		chats:   chat.NewOrchestrator(st, generator, log),
		plans:   plans.NewService(st, generator, log),
		avatars: avatars,
		log:     log,
	}
	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", api.HealthHandler)

	// Public auth routes
	r.Post("/auth/register", api.RegisterHandler)
	r.Post("/auth/login", api.LoginHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(api.Authenticator)

		r.Get("/auth/me", api.MeHandler)
		r.Post("/auth/preferences", api.UpdatePreferencesHandler)

		r.Get("/chat", api.ListChatsHandler)
		r.Post("/chat", api.SendMessageHandler)
		r.Get("/chat/{id}", api.GetChatHandler)
		r.Patch("/chat/{id}", api.RenameChatHandler)
		r.Delete("/chat/{id}", api.DeleteChatHandler)

		r.Post("/plans/generate", api.GeneratePlanHandler)
		r.Get("/plans/history", api.PlanHistoryHandler)
		r.Get("/plans/{id}", api.GetPlanHandler)
		r.Get("/plans/{id}/pdf", api.ExportPlanPDFHandler)

		r.Put("/profile", api.UpdateProfileHandler)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAdmin)
			r.Get("/admin/users", api.AdminListUsersHandler)
			r.Patch("/admin/users/{id}/plan", api.AdminUpdatePlanHandler)
			r.Patch("/admin/users/{id}/role", api.AdminUpdateRoleHandler)
			r.Patch("/admin/users/{id}/status", api.AdminUpdateStatusHandler)
			r.Delete("/admin/users/{id}", api.AdminDeleteUserHandler)
		})
	})

	// Locally stored avatars are served as static files.
	if local, ok := api.avatars.(*storage.LocalStore); ok {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
	}
}

// Serve blocks, listening on the configured port.
func (api *Api) Serve() error {
	addr := fmt.Sprintf(":%d", api.Config.APIPort)
	api.log.Info("api listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, api.Router)
}
