package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk"
	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stripe/stripe-go/v76"

	"github.com/Single-Connect/singles-connect-optimized/handlers"
	"github.com/Single-Connect/singles-connect-optimized/internal/notification"
	"github.com/Single-Connect/singles-connect-optimized/middleware"
	"github.com/Single-Connect/singles-connect-optimized/services"
)

var (
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	progressionService  *services.ProgressionService
	achievementService  *services.AchievementService
	notificationService *services.NotificationService
	swipeService        *services.SwipeService
	giftService         *services.GiftService
	shopService         *services.ShopService
	premiumService      *services.PremiumService
	advisorService      *services.AdvisorService
	leaderboardService  *services.LeaderboardService
	adminService        *services.AdminService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("STRIPE_SECRET_KEY environment variable is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	paddleClient, err := paddle.New(
		os.Getenv("PADDLE_API_KEY"),
		paddle.WithBaseURL(paddle.SandboxBaseURL),
	)
	if err != nil {
		log.Fatal("Failed to create Paddle client:", err)
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3333"
	}

	userService = services.NewUserService(dbPool)
	notificationService = services.NewNotificationService(dbPool)
	progressionService = services.NewProgressionService(dbPool)
	achievementService = services.NewAchievementService(dbPool, progressionService, notificationService)
	progressionService.SetAchievementService(achievementService)
	progressionService.SetNotificationService(notificationService)
	swipeService = services.NewSwipeService(dbPool, progressionService, achievementService, notificationService)
	giftService = services.NewGiftService(dbPool, achievementService, notificationService)
	shopService = services.NewShopService(dbPool, userService, baseURL+"/payment/success", baseURL+"/payment/cancel")
	premiumService = services.NewPremiumService(dbPool, userService, paddleClient)
	advisorService = services.NewAdvisorService(dbPool, userService)
	leaderboardService = services.NewLeaderboardService(dbPool)
	adminService = services.NewAdminService(dbPool)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

// expirePremiumWorker clears lapsed premium flags once an hour.
func expirePremiumWorker() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		expired, err := premiumService.ExpireLapsed(ctx)
		cancel()
		if err != nil {
			log.Printf("expirePremiumWorker: %v", err)
			continue
		}
		if expired > 0 {
			log.Printf("expirePremiumWorker: expired %d subscriptions", expired)
		}
	}
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	gamificationHandler := handlers.NewGamificationHandler(progressionService, achievementService, leaderboardService)
	swipeHandler := handlers.NewSwipeHandler(swipeService)
	giftHandler := handlers.NewGiftHandler(giftService)
	shopHandler := handlers.NewShopHandler(shopService)
	premiumHandler := handlers.NewPremiumHandler(premiumService)
	advisorHandler := handlers.NewAdvisorHandler(advisorService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webhookHandler := handlers.NewWebhookHandler(userService, shopService)
	adminHandler := handlers.NewAdminHandler(adminService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()
	go expirePremiumWorker()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "singles-connect-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.ClerkWebhook).Methods("POST")
	r.HandleFunc("/webhooks/stripe", webhookHandler.StripeWebhook).Methods("POST")
	r.HandleFunc("/webhooks/paddle", premiumHandler.PaddleWebhook).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public storefront data. A valid token still attaches the caller's
	// identity so these endpoints can personalize responses.
	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuthMiddleware)

	public.HandleFunc("/gifts/catalog", giftHandler.GetCatalog).Methods("GET")
	public.HandleFunc("/shop/packages", shopHandler.GetCoinPackages).Methods("GET")
	public.HandleFunc("/premium/tiers", premiumHandler.GetTiers).Methods("GET")
	public.HandleFunc("/levels", gamificationHandler.GetLevels).Methods("GET")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/photo", userHandler.UpdateProfilePhoto).Methods("PUT")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/user/coins", userHandler.GetCoinBalance).Methods("GET")

	protected.HandleFunc("/progress", gamificationHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/daily-reward", gamificationHandler.PreviewDailyReward).Methods("GET")
	protected.HandleFunc("/daily-reward/claim", gamificationHandler.ClaimDailyReward).Methods("POST")
	protected.HandleFunc("/achievements", gamificationHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/leaderboard", gamificationHandler.GetLeaderboard).Methods("GET")

	protected.HandleFunc("/discovery", swipeHandler.GetCandidates).Methods("GET")
	protected.HandleFunc("/swipe", swipeHandler.Swipe).Methods("POST")
	protected.HandleFunc("/matches", swipeHandler.GetMatches).Methods("GET")
	protected.HandleFunc("/matches/{matchId}", swipeHandler.Unmatch).Methods("DELETE")

	protected.HandleFunc("/gifts/send", giftHandler.SendGift).Methods("POST")
	protected.HandleFunc("/gifts/received", giftHandler.GetReceivedGifts).Methods("GET")
	protected.HandleFunc("/gifts/sent", giftHandler.GetSentGifts).Methods("GET")
	protected.HandleFunc("/gifts/{giftId}/delivered", giftHandler.MarkDelivered).Methods("PUT")

	protected.HandleFunc("/shop/checkout", shopHandler.CreateCheckout).Methods("POST")

	protected.HandleFunc("/premium/prices", premiumHandler.GetPrices).Methods("GET")
	protected.HandleFunc("/premium/subscribe", premiumHandler.Subscribe).Methods("POST")
	protected.HandleFunc("/premium/subscription", premiumHandler.GetSubscription).Methods("GET")

	protected.HandleFunc("/advisor/chat", advisorHandler.Chat).Methods("POST")
	protected.HandleFunc("/advisor/history", advisorHandler.GetHistory).Methods("GET")
	protected.HandleFunc("/advisor/history", advisorHandler.ClearHistory).Methods("DELETE")
	protected.HandleFunc("/advisor/products", advisorHandler.GetProducts).Methods("GET")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/{notificationId}/read", notificationHandler.MarkRead).Methods("PUT")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	protected.HandleFunc("/admin/users", adminHandler.ListUsers).Methods("GET")
	protected.HandleFunc("/admin/users/{userId}/role", adminHandler.UpdateRole).Methods("PUT")
	protected.HandleFunc("/admin/users/{userId}/vip", adminHandler.SetVIPStatus).Methods("PUT")
	protected.HandleFunc("/admin/users/{userId}/coins", adminHandler.GrantCoins).Methods("POST")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
