package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/comprebem/comprebem/internal/auth"
	"github.com/comprebem/comprebem/internal/clients"
	"github.com/comprebem/comprebem/internal/dashboard"
	"github.com/comprebem/comprebem/internal/orders"
	"github.com/comprebem/comprebem/internal/products"
	"github.com/comprebem/comprebem/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler      *auth.Handler
	ClientsHandler   *clients.Handler
	ProductsHandler  *products.Handler
	OrdersHandler    *orders.Handler
	DashboardHandler *dashboard.Handler
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Route("/clients", params.ClientsHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	})

	return r
}
