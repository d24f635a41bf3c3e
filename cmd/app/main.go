package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"copiersync/configs"
	"copiersync/internal/adapter"
	"copiersync/internal/database"
	delivery "copiersync/internal/delivery/http"
	"copiersync/internal/infra"
	"copiersync/internal/middleware"
	"copiersync/internal/repository"
	"copiersync/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	backtestRepo := repository.NewBacktestRepository(db)
	faqRepo := repository.NewFAQRepository(db)

	// Initialize the copier gateway
	gateway := adapter.NewCopierClient(
		cfg.Copier.BaseURL,
		cfg.Copier.AuthUsername,
		cfg.Copier.AuthToken,
		cfg.Copier.Timeout,
	)

	// Initialize the synchronization engine
	syncService := usecase.NewSyncService(gateway, accountRepo, settingsRepo, reportRepo, activityRepo)

	// Initialize the report scheduler
	scheduler := infra.NewScheduler(syncService)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Initialize auth
	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize API server
	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		Auth:            auth,
		AuthHandler:     delivery.NewAuthHandler(userRepo, auth),
		AccountHandler:  delivery.NewAccountHandler(syncService),
		SettingsHandler: delivery.NewSettingsHandler(syncService, settingsRepo),
		PositionHandler: delivery.NewPositionHandler(syncService),
		ReportHandler:   delivery.NewReportHandler(syncService, scheduler),
		ProfileHandler:  delivery.NewProfileHandler(userRepo),
		BacktestHandler: delivery.NewBacktestHandler(backtestRepo),
		FAQHandler:      delivery.NewFAQHandler(faqRepo),
		AdminHandler:    delivery.NewAdminHandler(syncService, userRepo, activityRepo),
	})

	// Ops listener: health probe plus manual batch triggers, kept off the
	// public API port.
	opsServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.OpsPort),
		Handler:      opsRouter(db, scheduler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[OK] Ops listener starting on :%s", cfg.Server.OpsPort)
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start ops listener: %v", err)
		}
	}()

	go func() {
		log.Printf("[OK] API server starting on :%s (env: %s)", cfg.Server.Port, cfg.Server.Env)
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: API server forced to shutdown: %v", err)
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Ops listener forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}

// opsRouter builds the internal operations surface.
func opsRouter(db interface{ Ping(context.Context) error }, scheduler *infra.Scheduler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if err := db.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "database": %q, "timestamp": %q}`,
			dbStatus, time.Now().Format(time.RFC3339))
	})

	r.Post("/jobs/daily-report/trigger", triggerJob("daily report", scheduler.RunDailyReports))
	r.Post("/jobs/monthly-report/trigger", triggerJob("monthly report", scheduler.RunMonthlyReports))

	return r
}

// triggerJob fires a batch job in the background and acknowledges
// immediately.
func triggerJob(name string, run func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		log.Printf("Manual %s batch triggered via ops API", name)

		go func() {
			if err := run(context.Background()); err != nil {
				log.Printf("ERROR: Manual %s batch failed: %v", name, err)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprintf(w, `{"message": "%s batch triggered", "status": "processing"}`, name)
	}
}
