package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voxtel/billing-backend/api/controllers"
	"github.com/voxtel/billing-backend/api/middleware"
	"github.com/voxtel/billing-backend/pkg/config"
	"github.com/voxtel/billing-backend/pkg/db"
	"github.com/voxtel/billing-backend/pkg/logger"
	"github.com/voxtel/billing-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    db.Pinger
	RedisClient *redis.Client

	Customers controllers.CustomerService
	Plans     controllers.PlanService
	Invoices  controllers.InvoiceService
	Engine    controllers.BillingEngine
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DBPinger, deps.RedisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		var idempotencyStore redis.IdempotencyStore
		var limiter redis.RateLimiter
		if deps.RedisClient != nil {
			idempotencyStore = deps.RedisClient
			limiter = deps.RedisClient
		}
		policy := middleware.NewRateLimitPolicy("api", deps.Config.RateLimit.Window, deps.Config.RateLimit.RequestLimit)
		r.Use(middleware.RateLimit(policy, limiter, deps.Logger))
		r.Use(middleware.Idempotency(idempotencyStore, deps.Logger))

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CustomerRegister(deps.Customers, deps.Logger))
			r.Get("/", controllers.CustomerList(deps.Customers, deps.Logger))

			r.Route("/{customerID}", func(r chi.Router) {
				r.Get("/", controllers.CustomerDetail(deps.Customers, deps.Logger))
				r.Post("/purchase", controllers.PurchasePlan(deps.Engine, deps.Logger))
				r.Post("/usage", controllers.RecordUsage(deps.Engine, deps.Logger))
				r.Post("/close-cycle", controllers.CloseCycle(deps.Engine, deps.Logger))

				r.Route("/invoices", func(r chi.Router) {
					r.Post("/", controllers.GenerateInvoice(deps.Engine, deps.Logger))
					r.Get("/", controllers.InvoiceList(deps.Invoices, deps.Logger))
					r.Get("/{invoiceID}", controllers.InvoiceDetail(deps.Invoices, deps.Logger))
				})
			})
		})

		r.Route("/plans", func(r chi.Router) {
			r.Post("/", controllers.PlanCreate(deps.Plans, deps.Logger))
			r.Get("/", controllers.PlanList(deps.Plans, deps.Logger))
			r.Get("/{planID}", controllers.PlanDetail(deps.Plans, deps.Logger))
			r.Patch("/{planID}", controllers.PlanUpdate(deps.Plans, deps.Logger))
		})
	})

	return r
}
