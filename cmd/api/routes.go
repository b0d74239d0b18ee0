package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/splitledger/docs"
	"github.com/fkhayef/splitledger/internal/config"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/internal/settlement"
	"github.com/fkhayef/splitledger/internal/split"
	mw "github.com/fkhayef/splitledger/pkg/middleware"
)

type handlers struct {
	groups        *group.Handler
	splits        *split.Handler
	templates     *split.TemplateHandler
	balances      *settlement.Handler
	notifications *notification.Handler
}

// @title        Split Ledger API
// @version      1.0
// @description  Shared expense splits with allocation strategies, confirmation lifecycle and templates.
// @BasePath     /api/v1
func newRouter(cfg *config.Config, logger *slog.Logger, recorder *metrics.Recorder, h handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(recorder.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", recorder.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthMode == config.AuthModeJWT {
			r.Use(mw.JWTAuth([]byte(cfg.JWTSecret)))
		} else {
			r.Use(mw.TestUserMiddleware)
		}

		r.Mount("/groups", h.groups.Routes())
		r.Mount("/notifications", h.notifications.Routes())

		// Group-scoped features are visible to joined members only
		r.Group(func(r chi.Router) {
			r.Use(h.groups.RequireMember)
			r.Mount("/groups/{groupId}/splits", h.splits.Routes())
			r.Mount("/groups/{groupId}/split-templates", h.templates.Routes())
			r.Mount("/groups/{groupId}/balances", h.balances.Routes())
		})
	})

	return r
}
