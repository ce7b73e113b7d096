package handlers

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FinSoft/internal/config"
	"FinSoft/internal/middleware"
	"FinSoft/internal/model"
	"FinSoft/internal/service"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	resourceService *service.ResourceService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger)
	resourceHandler := NewResourceHandler(resourceService, logger)

	r.Route("/api", func(r chi.Router) {
		// Auth routes
		r.Post("/auth/login", userHandler.Login)
		r.Post("/auth/refresh", userHandler.Refresh)
		r.Post("/auth/logout", userHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/auth/me", userHandler.Me)

			for _, name := range service.Resources() {
				r.Route("/"+name, func(r chi.Router) {
					r.Get("/", resourceHandler.List(name))
					r.Post("/", resourceHandler.Create(name))

					switch name {
					case service.ResourceWarehouse:
						r.Get("/factory", resourceHandler.ListByType(name, string(model.LocationFactory)))
					case service.ResourceWorkshops:
						r.Get("/capsule", resourceHandler.ListKind(name, string(model.WorkshopCapsule)))
						r.Get("/cup", resourceHandler.ListKind(name, string(model.WorkshopCup)))
					case service.ResourceDebts:
						r.Get("/{id}/payments", resourceHandler.Payments)
						r.Post("/{id}/payments", resourceHandler.Pay)
					}

					r.Get("/{id}", resourceHandler.Get(name))
					r.Put("/{id}", resourceHandler.Update(name))
					r.Patch("/{id}", resourceHandler.Update(name))
					r.Delete("/{id}", resourceHandler.Delete(name))
				})
			}
		})
	})

	return &Handler{Router: r}
}
