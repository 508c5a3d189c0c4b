package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/api/middlewares"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/config"
)

type CustomRouter struct {
	router *chi.Mux
	logger *slog.Logger
	cfg    *config.Config
}

func New(cfg *config.Config, log *slog.Logger) *CustomRouter {
	router := &CustomRouter{
		router: chi.NewRouter(),
		logger: log,
		cfg:    cfg,
	}

	return router
}

type CheckHandler interface {
	Check(w http.ResponseWriter, r *http.Request)
}

type HealthHandler interface {
	Ping(w http.ResponseWriter, r *http.Request)
}

type Handler interface {
	CheckHandler
	HealthHandler
}

func (cr *CustomRouter) SetRouter(h Handler) {
	if cr.logger != nil {
		cr.router.Use(middlewares.Logging(cr.logger))
	}

	cr.router.Route("/api", func(r chi.Router) {
		r.With(middleware.AllowContentType("application/json")).
			Post("/check", h.Check)
	})
	cr.router.Get("/ping", h.Ping)

	cr.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w,
			http.StatusText(http.StatusMethodNotAllowed),
			http.StatusMethodNotAllowed)
	})
}

func (cr *CustomRouter) GetRouter() *chi.Mux {
	return cr.router
}
