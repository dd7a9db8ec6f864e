package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/juicejoy/juicejoy-backend/api/controllers"
	"github.com/juicejoy/juicejoy-backend/api/middleware"
	authsvc "github.com/juicejoy/juicejoy-backend/internal/auth"
	cartsvc "github.com/juicejoy/juicejoy-backend/internal/cart"
	catalogsvc "github.com/juicejoy/juicejoy-backend/internal/catalog"
	ordersvc "github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/internal/payments"
	"github.com/juicejoy/juicejoy-backend/internal/realtime"
	subssvc "github.com/juicejoy/juicejoy-backend/internal/subscriptions"
	"github.com/juicejoy/juicejoy-backend/pkg/auth/session"
	"github.com/juicejoy/juicejoy-backend/pkg/config"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Sessions session.AccessSessionChecker

	Auth          authsvc.Service
	Catalog       catalogsvc.Service
	Cart          cartsvc.Service
	Orders        ordersvc.Service
	Subscriptions subssvc.Service
	Payments      payments.Service
	PaymentGuard  *payments.IdempotencyGuard
	Hub           *realtime.Hub
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/payment", controllers.PaymentWebhook(deps.Payments, cfg.Payment.WebhookSecret, deps.PaymentGuard, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/phone-login", controllers.PhoneLogin(deps.Auth, logg))
		r.Post("/email-login", controllers.EmailLogin(deps.Auth, logg))
		r.Post("/business-login", controllers.BusinessLogin(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.Logout(deps.Auth, logg))
	})

	// Public storefront.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.Catalog, logg))
	})
	r.Get("/api/v1/plans", controllers.ListPlans(deps.Subscriptions, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Get("/quote", controllers.CartQuote(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartSetQuantity(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.Orders, deps.Cart, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Get("/{orderId}/events", controllers.OrderEvents(deps.Orders, deps.Hub, logg))
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", controllers.SubscriptionCreate(deps.Subscriptions, logg))
			r.Get("/", controllers.SubscriptionList(deps.Subscriptions, logg))
			r.Get("/{subscriptionId}", controllers.SubscriptionDetail(deps.Subscriptions, logg))
			r.Post("/{subscriptionId}/status", controllers.SubscriptionSetStatus(deps.Subscriptions, logg))
			r.Patch("/{subscriptionId}/next-delivery", controllers.SubscriptionUpdateNextDelivery(deps.Subscriptions, logg))
		})

		r.Route("/business", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleBusinessOwner.String(), logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.BusinessListProducts(deps.Catalog, logg))
				r.Post("/", controllers.BusinessCreateProduct(deps.Catalog, logg))
				r.Put("/{productId}", controllers.BusinessUpdateProduct(deps.Catalog, logg))
				r.Delete("/{productId}", controllers.BusinessDeleteProduct(deps.Catalog, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.BusinessOrderList(deps.Orders, logg))
				r.Post("/{orderId}/status", controllers.BusinessOrderSetStatus(deps.Orders, logg))
			})

			r.Route("/plans", func(r chi.Router) {
				r.Get("/", controllers.BusinessListPlans(deps.Subscriptions, logg))
				r.Post("/", controllers.BusinessCreatePlan(deps.Subscriptions, logg))
				r.Patch("/{planId}", controllers.BusinessUpdatePlan(deps.Subscriptions, logg))
			})

			r.Get("/subscriptions", controllers.BusinessSubscriptionList(deps.Subscriptions, logg))
		})
	})

	return r
}
