package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/app"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/cache"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/config"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/controllers"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/middleware"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/repositories"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/routes"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/seeding"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/services"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	// 1) Store: Postgres when DB_URL is set, in-memory (seeded) otherwise.
	var repo repositories.DeletionRequestRepository
	if cfg.DBUrl == "" {
		memRepo := repositories.NewInMemoryDeletionRequestRepository()
		if err := seeding.SeedDeletionRequests(memRepo); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed the in-memory store")
		}
		repo = memRepo
	} else {
		application, err := app.NewApp(cfg)
		if err != nil {
			utils.Logger.Fatal("Failed to initialize app:", err)
		}
		defer application.Close()
		repo = repositories.NewDeletionRequestRepository(application.DB)

		if cfg.SeedTestData {
			if err := seeding.SeedDeletionRequests(repo); err != nil {
				utils.Logger.WithError(err).Fatal("Failed to seed test data")
			}
		}
	}

	// 2) Pending-set cache + refresh scheduler
	pendingCache := cache.NewPendingCache(cfg.Cache)
	refreshService := services.NewCacheRefreshService(repo, pendingCache)
	deletionRequestService := services.NewDeletionRequestService(repo, pendingCache, refreshService)

	// 3) Controllers
	deletionRequestController := controllers.NewDeletionRequestController(deletionRequestService)
	healthController := controllers.NewHealthController(repo)

	// 4) Router
	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.Handle(routes.DeletionRequestBase,
		middleware.RequirePermission(routes.PermReadAll)(http.HandlerFunc(deletionRequestController.GetAllHandler))).
		Methods(http.MethodGet)
	secured.Handle(routes.DeletionRequestCreate,
		middleware.RequirePermission(routes.PermCreate)(http.HandlerFunc(deletionRequestController.CreateHandler))).
		Methods(http.MethodPost)
	secured.Handle(routes.DeletionRequestApprove,
		middleware.RequirePermission(routes.PermUpdate)(http.HandlerFunc(deletionRequestController.ApproveHandler))).
		Methods(http.MethodPatch)
	secured.Handle(routes.DeletionRequestByID,
		middleware.RequirePermission(routes.PermReadOne)(http.HandlerFunc(deletionRequestController.GetByIDHandler))).
		Methods(http.MethodGet)

	// 5) Auto-refresh: prime the cache, react to evictions, and re-populate on
	// a fixed cadence so the pending-set stays a warm materialized view.
	if cfg.CacheAutoRefresh {
		ctx := context.Background()
		go refreshService.Run(ctx)

		if err := refreshService.Refresh(ctx); err != nil {
			utils.Logger.WithError(err).Error("Initial cache population failed; serving cold until next refresh")
		}

		c := cron.New()
		if _, err := c.AddFunc(fmt.Sprintf("@every %s", cfg.CacheRefreshInterval), func() {
			if e := refreshService.Refresh(ctx); e != nil {
				utils.Logger.WithError(e).Error("Scheduled cache refresh failed")
			}
		}); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule cache refresh cron")
		}
		c.Start()
	}

	// 6) CORS
	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}
