package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dishfeed/merchant-backend/api/controllers"
	"github.com/dishfeed/merchant-backend/api/middleware"
	"github.com/dishfeed/merchant-backend/internal/agentruns"
	"github.com/dishfeed/merchant-backend/internal/cartdrafts"
	"github.com/dishfeed/merchant-backend/internal/catalog"
	checkoutsvc "github.com/dishfeed/merchant-backend/internal/checkout"
	"github.com/dishfeed/merchant-backend/pkg/config"
	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/logger"
	"github.com/dishfeed/merchant-backend/pkg/metrics"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	CatalogStore     *db.Client
	TransactionStore *db.Client
	HTTPMetrics      *metrics.HTTPMetrics
	MetricsHandler   http.Handler
	IdempotencyStore middleware.IdempotencyStore

	CatalogService   catalog.Service
	AgentRunService  agentruns.Service
	CartDraftService cartdrafts.Service
	CheckoutService  checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.CatalogStore, deps.TransactionStore))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Get("/products", controllers.ListProducts(deps.CatalogService, logg))
	r.Get("/promotions", controllers.ListPromotions(deps.CatalogService, logg))

	r.Route("/agent-runs", func(r chi.Router) {
		r.Post("/", controllers.UpsertAgentRun(deps.AgentRunService, logg))
		r.Patch("/{id}", controllers.PatchAgentRun(deps.AgentRunService, logg))
		r.Get("/{id}", controllers.GetAgentRun(deps.AgentRunService, logg))
	})

	r.Post("/agent-run-steps", controllers.CreateAgentRunStep(deps.AgentRunService, logg))
	r.Post("/approvals", controllers.CreateApproval(deps.AgentRunService, logg))

	r.Route("/cart-drafts", func(r chi.Router) {
		r.Post("/", controllers.UpsertCartDraft(deps.CartDraftService, logg))
		r.Patch("/{id}", controllers.PatchCartDraft(deps.CartDraftService, logg))
		r.Get("/{id}", controllers.GetCartDraft(deps.CartDraftService, logg))
	})

	r.Route("/checkout-sessions", func(r chi.Router) {
		r.With(middleware.Idempotency(deps.IdempotencyStore, logg)).
			Post("/", controllers.SaveCheckoutSession(deps.CheckoutService, logg))
		r.Get("/{id}", controllers.GetCheckoutSession(deps.CheckoutService, logg))
	})

	r.Route("/orders", func(r chi.Router) {
		r.With(middleware.Idempotency(deps.IdempotencyStore, logg)).
			Post("/", controllers.SaveOrder(deps.CheckoutService, logg))
		r.Get("/{id}", controllers.GetOrder(deps.CheckoutService, logg))
	})

	r.Get("/shipping-rates", controllers.ListShippingRates(deps.CheckoutService, logg))
	r.Get("/discounts", controllers.ListDiscounts(deps.CheckoutService, logg))

	r.Route("/customers/{email}/addresses", func(r chi.Router) {
		r.Post("/", controllers.SaveCustomerAddress(deps.CheckoutService, logg))
		r.Get("/", controllers.ListCustomerAddresses(deps.CheckoutService, logg))
	})

	return r
}
