package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recoverydesk/internal/backend"
	"recoverydesk/internal/db"
	"recoverydesk/internal/eventfeed"
	"recoverydesk/internal/handlers"
	"recoverydesk/internal/handlers/api"
	"recoverydesk/internal/middleware"
	"recoverydesk/internal/models"
	"recoverydesk/internal/pricing"
)

// Deps are the services the routes are served from.
type Deps struct {
	DB         *db.DB
	Provider   backend.Provider // may be cached; read endpoints only
	Broadcasts api.BroadcastLauncher
	Prices     *pricing.Table
	Feed       *eventfeed.Consumer // nil when the live feed is disabled
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	authMiddleware := middleware.NewAuthMiddleware(deps.DB, s.Cfg)

	var feedStatus interface{ Connected() bool }
	if deps.Feed != nil {
		feedStatus = deps.Feed
	}
	health := api.NewHealthHandler(deps.DB, feedStatus)

	s.App.Get("/healthz", health.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if s.Cfg.IsOIDCEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, deps.DB)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		log.Println("OIDC authentication is disabled. Set OIDC_ISSUER to enable.")
	}

	allocationHandler := api.NewAllocationHandler(deps.Provider)
	recommendationHandler := api.NewRecommendationHandler(deps.Provider)
	pricingHandler := api.NewPricingHandler(deps.Prices)
	broadcastHandler := api.NewBroadcastHandler(deps.Broadcasts, deps.DB)
	snapshotHandler := api.NewSnapshotHandler(deps.DB)

	apiGroup := s.App.Group("/api", authMiddleware.RequireAuth)

	apiGroup.Get("/segments", api.Segments)
	apiGroup.Post("/allocations", allocationHandler.Allocate)
	apiGroup.Get("/allocations/curve", allocationHandler.Curve)
	apiGroup.Get("/recommendation", recommendationHandler.Get)
	apiGroup.Get("/pricing", pricingHandler.List)
	apiGroup.Get("/pricing/estimate", pricingHandler.Estimate)
	apiGroup.Post("/broadcasts", middleware.RequireRole(models.RoleOperator), broadcastHandler.Create)
	apiGroup.Get("/broadcasts", broadcastHandler.List)
	apiGroup.Get("/broadcasts/:id", broadcastHandler.Get)
	apiGroup.Get("/snapshots", snapshotHandler.List)

	if deps.Feed != nil {
		eventHandler := api.NewEventHandler(deps.Feed)
		apiGroup.Get("/events", eventHandler.Recent)
		apiGroup.Get("/events/stream", eventHandler.Stream)
	} else {
		apiGroup.Get("/events", api.FeedDisabled)
		apiGroup.Get("/events/stream", api.FeedDisabled)
	}

	return nil
}
