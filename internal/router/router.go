package router

import (
	"net/http"

	"github.com/fooddash/api/internal/cart"
	"github.com/fooddash/api/internal/catalog"
	"github.com/fooddash/api/internal/config"
	"github.com/fooddash/api/internal/handler"
	mw "github.com/fooddash/api/internal/middleware"
	"github.com/fooddash/api/internal/service"
	"github.com/fooddash/api/internal/web"
	"github.com/fooddash/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps are the long-lived components the routes are served from.
type Deps struct {
	Catalog  *catalog.Catalog
	Carts    *cart.Store
	Checkout *service.CheckoutService
	Hub      *ws.Hub
	Pages    *web.Pages
	Logger   *zap.Logger
}

// New creates a Chi router with the JSON API, the WebSocket stream and the
// HTML storefront wired up. Every request is bound to a guest session.
func New(cfg *config.Config, d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	orderHandler := handler.NewOrderHandler(d.Checkout, d.Logger)
	session := mw.Session(cfg.SessionSecret, cfg.SessionTTL, d.Logger)

	r.Group(func(r chi.Router) {
		r.Use(session)

		r.Route("/api", func(r chi.Router) {
			restaurantHandler := handler.NewRestaurantHandler(d.Catalog, d.Logger)
			r.Route("/restaurants", restaurantHandler.RegisterRoutes)
			r.Get("/cuisines", restaurantHandler.Cuisines)

			cartHandler := handler.NewCartHandler(d.Carts, d.Catalog, d.Logger)
			r.Route("/cart", cartHandler.RegisterRoutes)

			checkoutHandler := handler.NewCheckoutHandler(d.Checkout, d.Logger)
			r.Route("/checkout", checkoutHandler.RegisterRoutes)

			r.Route("/orders", orderHandler.RegisterRoutes)
		})

		d.Pages.RegisterRoutes(r)
	})

	// Tracking streams are public: order ids are unguessable.
	r.Get("/ws/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, orderHandler.Snapshot, w, r)
	})

	r.NotFound(session(http.HandlerFunc(d.Pages.NotFound)).ServeHTTP)

	d.Logger.Info("router initialized")
	return r
}
