package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bannugul/consumer-gateway/api/controllers"
	"github.com/bannugul/consumer-gateway/api/middleware"
	addresssvc "github.com/bannugul/consumer-gateway/internal/address"
	authsvc "github.com/bannugul/consumer-gateway/internal/auth"
	cartsvc "github.com/bannugul/consumer-gateway/internal/cart"
	catalogsvc "github.com/bannugul/consumer-gateway/internal/catalog"
	checkoutsvc "github.com/bannugul/consumer-gateway/internal/checkout"
	orderssvc "github.com/bannugul/consumer-gateway/internal/orders"
	"github.com/bannugul/consumer-gateway/internal/session"
	settingssvc "github.com/bannugul/consumer-gateway/internal/settings"
	supportsvc "github.com/bannugul/consumer-gateway/internal/support"
	"github.com/bannugul/consumer-gateway/pkg/config"
	"github.com/bannugul/consumer-gateway/pkg/logger"
	"github.com/bannugul/consumer-gateway/pkg/metrics"
	pkgredis "github.com/bannugul/consumer-gateway/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth     *authsvc.Service
	Cart     *cartsvc.Service
	Catalog  *catalogsvc.Service
	Address  *addresssvc.Service
	Orders   *orderssvc.Service
	Checkout *checkoutsvc.Service
	Settings *settingssvc.Service
	Support  *supportsvc.Service
}

// Dependencies are the infrastructure hooks the router needs beyond the
// domain services.
type Dependencies struct {
	Sessions    *session.Store
	Redis       *pkgredis.Client
	DBPinger    pkgredis.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svcs Services, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var (
		idemStore pkgredis.IdempotencyStore
		redisPing pkgredis.Pinger
	)
	if deps.Redis != nil {
		idemStore = deps.Redis
		redisPing = deps.Redis
	}
	loginLimit := middleware.AuthRateLimit(loginPolicy, nil, logg)
	registerLimit := middleware.AuthRateLimit(registerPolicy, nil, logg)
	if deps.Redis != nil {
		loginLimit = middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPing))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface: browse, auth entry points, settings, contact.
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit).
				Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.With(
				registerLimit,
				middleware.Idempotency(idemStore, logg),
			).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
			r.Post("/forgot-password", controllers.AuthForgotPassword(svcs.Auth, logg))
			r.Post("/reset-password", controllers.AuthResetPassword(svcs.Auth, logg))
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", controllers.RestaurantList(svcs.Catalog, logg))
			r.Get("/search", controllers.RestaurantSearch(svcs.Catalog, logg))
			r.Get("/{restaurantId}", controllers.RestaurantDetail(svcs.Catalog, logg))
			r.Get("/{restaurantId}/menu", controllers.RestaurantMenu(svcs.Catalog, logg))
			r.Get("/{restaurantId}/reviews", controllers.RestaurantReviews(svcs.Catalog, logg))
		})
		r.Get("/products/{productId}", controllers.ProductDetail(svcs.Catalog, logg))
		r.Get("/sliders", controllers.HomeSliders(svcs.Catalog, logg))
		r.Get("/categories", controllers.CategoryList(svcs.Catalog, logg))
		r.Get("/settings", controllers.SettingsShow(svcs.Settings, logg))
		r.With(middleware.Idempotency(idemStore, logg)).
			Post("/contact", controllers.ContactSubmit(svcs.Support, logg))

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Post("/auth/logout", controllers.AuthLogout(svcs.Auth, logg, svcs.Cart, svcs.Address, svcs.Catalog))
			r.Put("/auth/profile", controllers.AuthProfileUpdate(svcs.Auth, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartShow(svcs.Cart, logg))
				r.Post("/reload", controllers.CartReload(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Put("/items", controllers.CartChangeQuantity(svcs.Cart, logg))
				r.Delete("/items", controllers.CartRemoveItem(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(svcs.Address, logg))
				r.Post("/", controllers.AddressAdd(svcs.Address, logg))
				r.Post("/{addressId}/activate", controllers.AddressSetActive(svcs.Address, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(svcs.Address, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
			})

			r.Get("/checkout/review", controllers.CheckoutReview(svcs.Checkout, logg))
			r.Post("/checkout", controllers.CheckoutPlaceOrder(svcs.Checkout, logg))

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoriteList(svcs.Catalog, logg))
				r.Post("/{restaurantId}", controllers.FavoriteToggle(svcs.Catalog, logg))
			})
		})
	})

	return r
}
