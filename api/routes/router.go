package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	ordercontrollers "github.com/angelmondragon/storefront-backend/api/controllers/orders"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/address"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/visitors"
	"github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Envelope seals responses and opens sealed request bodies.
type Envelope interface {
	ordercontrollers.Envelope
}

// RedisStore is the redis surface used by request middleware.
type RedisStore interface {
	middleware.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

const (
	publicRateLimit  = 120
	visitorRateLimit = 30
	rateLimitWindow  = time.Minute
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	env Envelope,
	redisStore RedisStore,
	gatherer prometheus.Gatherer,
	readiness map[string]controllers.Pinger,
	ordersSvc orders.Service,
	addressSvc address.Service,
	visitorSvc visitors.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.FrontendURL),
	)

	publicPolicy := middleware.NewRateLimitPolicy("public", rateLimitWindow, publicRateLimit)
	visitorPolicy := middleware.NewRateLimitPolicy("visitor", rateLimitWindow, visitorRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	authenticated := middleware.Auth(auth.NewVerifier(cfg.JWT), logg)
	adminOnly := middleware.RequireRole(enums.UserRoleAdmin, logg)
	idempotent := middleware.Idempotency(redisStore, logg)

	r.Route("/order", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(publicPolicy, redisStore, logg))
			r.Post("/verify", ordercontrollers.Verify(ordersSvc, env, logg))
			r.Get("/best-sellers", ordercontrollers.BestSellers(ordersSvc, env, logg))
		})

		r.With(middleware.WebhookKey(cfg.Shiprocket.WebhookToken, logg)).
			Post("/status", ordercontrollers.CarrierStatus(ordersSvc, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Use(idempotent)
			r.Post("/new", ordercontrollers.Create(ordersSvc, env, logg))
			r.Post("/updatePayment", ordercontrollers.UpdatePayment(ordersSvc, env, logg))
			r.Post("/shippingCharge", ordercontrollers.ShippingCharge(ordersSvc, env, logg))
			r.Post("/cancel", ordercontrollers.Cancel(ordersSvc, env, logg))
			r.Get("/my-orders", ordercontrollers.MyOrders(ordersSvc, env, logg))
			r.Post("/invoice", ordercontrollers.Invoice(ordersSvc, env, logg))
			r.Post("/track", ordercontrollers.Track(ordersSvc, env, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Use(adminOnly)
			r.Post("/", ordercontrollers.AdminList(ordersSvc, env, logg))
			r.Post("/manual-status", ordercontrollers.ManualStatus(ordersSvc, env, logg))
		})
	})

	r.Route("/shipping-address", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", controllers.AddressList(addressSvc, env, logg))
		r.With(idempotent).Post("/", controllers.AddressCreate(addressSvc, env, logg))
		r.Delete("/{addressId}", controllers.AddressDelete(addressSvc, logg))
	})

	r.Route("/visitor", func(r chi.Router) {
		r.Use(middleware.RateLimit(visitorPolicy, redisStore, logg))
		r.Get("/", controllers.VisitorCount(visitorSvc, logg))
		r.Post("/", controllers.VisitorTrack(visitorSvc, controllers.VisitorCookie{
			TTL:    cfg.Visitor.CookieTTL,
			Secure: cfg.App.IsProd(),
		}, logg))
	})

	return r
}
