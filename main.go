// api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"utmattribution/api/config"
	"utmattribution/api/database"
	"utmattribution/api/handlers"
	"utmattribution/api/middleware"
	"utmattribution/api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ApplyLogLevel()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET_KEY is not set; admin login is disabled")
	}

	ctx := context.Background()

	// --- PostgreSQL (settings and admin users) ---
	dbClient, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- ClickHouse (forwarded form submissions), optional ---
	var sink handlers.SubmissionSink
	if cfg.ClickHouseEnabled() {
		chClient, err := database.NewClickHouseDB(ctx, database.ClickHouseOptions{
			Host:       cfg.ClickHouseHost,
			NativePort: cfg.ClickHouseNativePort,
			Database:   cfg.ClickHouseDBName,
			Username:   cfg.ClickHouseUsername,
			Password:   cfg.ClickHousePassword,
		})
		if err != nil {
			log.Fatalf("Failed to initialize ClickHouse database: %v", err)
		}
		defer chClient.Close()
		sink = store.NewSubmissionStore(chClient)
	} else {
		log.Info("ClickHouse is not configured; submissions are not forwarded")
	}

	// --- Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	settingsStore := store.NewSettingsStore(dbClient.DB)
	cookieOpts := store.CookieOptions{
		Prefix:              cfg.CookiePrefix,
		Domain:              cfg.CookieDomain,
		TrustForwardedProto: cfg.TrustForwardedProto,
	}

	// --- Handlers ---
	jwtSecret := []byte(cfg.JWTSecret)
	authHandlers := handlers.NewAuthHandlers(userStore, jwtSecret, cfg.AdminCookieSecure)
	formHandlers := handlers.NewFormHandlers(settingsStore, sink, cookieOpts)
	lookupHandlers := handlers.NewLookupHandlers(settingsStore, cookieOpts)
	scriptHandlers := handlers.NewScriptHandlers(settingsStore, "/visit", "/utm/values")
	settingsHandlers := handlers.NewSettingsHandlers(settingsStore)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.FEOrigin))

	r.GET("/health", handlers.HealthCheck)

	// Host-facing attribution endpoints
	r.GET("/visit", middleware.CaptureAttribution(settingsStore, cookieOpts, middleware.BeaconVisit), handlers.VisitRecorded)
	r.POST("/forms/:formID/submit", formHandlers.Submit)
	r.GET("/utm", lookupHandlers.Shortcode)
	r.GET("/utm/values", lookupHandlers.Values)
	r.GET("/tags/:name", lookupHandlers.DynamicTag)
	r.GET("/utm-fill.js", scriptHandlers.FrontendFill)

	api := r.Group("/api")
	{
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired(jwtSecret, cfg.AuthDefault))
		{
			protected.POST("/signup", authHandlers.Signup)
			protected.GET("/settings", settingsHandlers.GetSettings)
			protected.PUT("/settings", settingsHandlers.UpdateSettings)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("UTM attribution API starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("UTM attribution API failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}
