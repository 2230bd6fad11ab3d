package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bbdolx/backend/internal/config"
	"github.com/bbdolx/backend/internal/database"
	"github.com/bbdolx/backend/internal/mailer"
	postgresrepo "github.com/bbdolx/backend/internal/repository/postgres"
	"github.com/bbdolx/backend/internal/service"
	"github.com/bbdolx/backend/internal/transport/http/handlers"
	"github.com/bbdolx/backend/internal/transport/http/middleware"
	"github.com/bbdolx/backend/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	if err := database.Migrate(ctx, cfg); err != nil {
		log.Fatal(err)
	}
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	profileRepo := postgresrepo.NewProfileRepo(pool)
	otpRepo := postgresrepo.NewOTPRepo(pool)
	categoryRepo := postgresrepo.NewCategoryRepo(pool)
	listingRepo := postgresrepo.NewListingRepo(pool)
	notifRepo := postgresrepo.NewNotificationRepo(pool)

	// WebSocket hub for live notification push
	hub := ws.NewHub()
	go hub.Run()

	// Services
	otpMailer := mailer.New(cfg.OTPWebhookURL, cfg.OTPSecret)
	otpService := service.NewOTPService(otpRepo, userRepo, otpMailer)
	authService := service.NewAuthService(userRepo, otpService, cfg.JWTSecret)
	listingService := service.NewListingService(listingRepo, categoryRepo)
	moderationService := service.NewModerationService(listingRepo, userRepo, notifRepo, ws.NewHubNotifier(hub))
	catalogService := service.NewCatalogService(categoryRepo, listingRepo, userRepo)
	notificationService := service.NewNotificationService(notifRepo)
	profileService := service.NewProfileService(profileRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.AllowedEmailDomains)
	listingHandler := handlers.NewListingHandler(listingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	profileHandler := handlers.NewProfileHandler(profileService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/verify-otp", authHandler.VerifyOTP)
	mux.HandleFunc("POST /api/v1/auth/resend-otp", authHandler.ResendOTP)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/listings", catalogHandler.Search)
	mux.HandleFunc("GET /api/v1/listings/{id}", listingHandler.Get)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.ListCategories)

	// Protected - Listings
	mux.Handle("POST /api/v1/listings", auth(http.HandlerFunc(listingHandler.Create)))
	mux.Handle("PATCH /api/v1/listings/{id}", auth(http.HandlerFunc(listingHandler.Update)))
	mux.Handle("POST /api/v1/listings/{id}/sold", auth(http.HandlerFunc(listingHandler.MarkSold)))
	mux.Handle("GET /api/v1/my/listings", auth(http.HandlerFunc(listingHandler.MyListings)))

	// Protected - Profile
	mux.Handle("GET /api/v1/me/profile", auth(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PATCH /api/v1/me/profile", auth(http.HandlerFunc(profileHandler.Update)))

	// Protected - Notifications
	mux.Handle("GET /api/v1/notifications", auth(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("POST /api/v1/notifications/{id}/read", auth(http.HandlerFunc(notificationHandler.MarkRead)))

	// Protected - Moderation (staff check lives in the service)
	mux.Handle("GET /api/v1/moderation/listings", auth(http.HandlerFunc(moderationHandler.List)))
	mux.Handle("POST /api/v1/moderation/listings/{id}/approve", auth(http.HandlerFunc(moderationHandler.Approve)))
	mux.Handle("POST /api/v1/moderation/listings/{id}/reject", auth(http.HandlerFunc(moderationHandler.Reject)))
	mux.Handle("DELETE /api/v1/moderation/listings/{id}", auth(http.HandlerFunc(moderationHandler.Delete)))
	mux.Handle("POST /api/v1/categories", auth(http.HandlerFunc(catalogHandler.CreateCategory)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.CORS(mux),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
