package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mercatto/cart-service/api/controllers"
	"github.com/mercatto/cart-service/api/middleware"
	"github.com/mercatto/cart-service/internal/carts"
	"github.com/mercatto/cart-service/pkg/config"
	"github.com/mercatto/cart-service/pkg/db"
	"github.com/mercatto/cart-service/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cartService carts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/carts", func(r chi.Router) {
		r.Post("/", controllers.CartCreate(cartService, logg))
		r.Get("/{cartId}", controllers.CartFetch(cartService, logg))
		r.Put("/{cartId}", controllers.CartReplaceProducts(cartService, logg))
		r.Delete("/{cartId}", controllers.CartClear(cartService, logg))

		// add keeps the singular segment, remove/update the plural one
		r.Post("/{cartId}/product/{productId}", controllers.CartAddProduct(cartService, logg))
		r.Delete("/{cartId}/products/{productId}", controllers.CartRemoveProduct(cartService, logg))
		r.Put("/{cartId}/products/{productId}", controllers.CartSetQuantity(cartService, logg))
	})

	return r
}
