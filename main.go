package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vidhyalakshmi16/svm-mobiles/auth"
	"github.com/Vidhyalakshmi16/svm-mobiles/backup"
	"github.com/Vidhyalakshmi16/svm-mobiles/config"
	orderControllers "github.com/Vidhyalakshmi16/svm-mobiles/controllers/order"
	"github.com/Vidhyalakshmi16/svm-mobiles/invoice"
	"github.com/Vidhyalakshmi16/svm-mobiles/logger"
	"github.com/Vidhyalakshmi16/svm-mobiles/middleware"
	"github.com/Vidhyalakshmi16/svm-mobiles/notify"
	"github.com/Vidhyalakshmi16/svm-mobiles/routes"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/Vidhyalakshmi16/svm-mobiles/storage"
	"github.com/Vidhyalakshmi16/svm-mobiles/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// Load environment variables
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log, cfg.App.Env)
	if err != nil {
		return err
	}
	defer logger.Sync(log)
	log.Info("✅ Starting application...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1️⃣ Storage
	db, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	images, closeImages, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeImages()

	// 2️⃣ Notifications, constructed once and shared
	mailer, sms, err := notify.Channels(cfg.Mail, cfg.SMS, log.Named("notify"))
	if err != nil {
		return err
	}
	dispatcher := notify.NewDispatcher(mailer, sms,
		notify.WithCountryCode(cfg.SMS.CountryCode),
		notify.WithTimeout(cfg.SMS.Timeout),
		notify.WithLogger(log))

	// 3️⃣ Services
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hub := orderControllers.NewHub(cfg.Server.AllowedOrigins(), log)
	adminContacts := services.AdminContacts{Email: cfg.Admin.AlertEmail(), Phone: cfg.Admin.Phone}

	authSvc := services.NewAuthService(services.AuthServiceDeps{
		Users:               db,
		Tokens:              tokens,
		AllowEmailOnlyReset: cfg.Auth.InsecurePasswordReset,
		Logger:              log,
	})
	if cfg.Auth.InsecurePasswordReset {
		log.Warn("email-only password reset is enabled (auth.insecure_password_reset)")
	}
	if err := authSvc.SeedAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Phone); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	deps := routes.Deps{
		Catalog: services.NewCatalogService(services.CatalogServiceDeps{
			Products:   db,
			Categories: db,
			Images:     images,
			Logger:     log,
		}),
		Orders: services.NewOrderService(services.OrderServiceDeps{
			Orders:   db,
			Notifier: dispatcher,
			Events:   hub,
			Invoices: invoice.NewRenderer(cfg.Invoice.StoreName),
			Archive:  invoice.NewArchive(cfg.Invoice.Dir),
			Admin:    adminContacts,
			Logger:   log,
		}),
		ServiceRequests: services.NewServiceRequestService(services.ServiceRequestServiceDeps{
			Requests: db,
			Notifier: dispatcher,
			Events:   hub,
			Admin:    adminContacts,
			Logger:   log,
		}),
		Auth:          authSvc,
		Tokens:        tokens,
		Hub:           hub,
		AuthRateLimit: cfg.Server.RateLimit,
		Logger:        log,
	}

	// 4️⃣ HTTP
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(middleware.RequestID(), middleware.Logging(log), middleware.Recovery(log))
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins())))
	if cfg.Storage.Backend == "local" {
		r.Static(cfg.Storage.PublicPath, cfg.Storage.UploadDir)
	}
	routes.SetupRoutes(r, deps)

	// 5️⃣ Daily backup of uploads and invoices
	if cfg.Backup.Enabled {
		scheduler := backup.NewScheduler(cfg.Backup, map[string]string{
			"uploads":  cfg.Storage.UploadDir,
			"invoices": cfg.Invoice.Dir,
		}, log)
		go scheduler.Run(ctx)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	// Let queued emails and SMS finish before exit.
	dispatcher.Wait()
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("using in-memory store, data is lost on exit")
		return store.NewMemory(), nil
	}
	db, err := store.Open(cfg.Database, cfg.Log.Level, log.Named("gorm"))
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return db, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}
