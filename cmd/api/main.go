package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamup/internal/api"
	"teamup/internal/api/handlers"
	"teamup/internal/auth"
	"teamup/internal/config"
	"teamup/internal/db"
	"teamup/internal/logger"
	"teamup/internal/metrics"
	"teamup/internal/middleware"
	"teamup/internal/notify"
	"teamup/internal/payments"
	"teamup/internal/repository/postgres"
	"teamup/internal/services"
	"teamup/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	store := postgres.NewStore(pool)

	// the single-tenant team row is created here, at startup, never
	// lazily from request paths
	team, err := store.Repos().Teams.EnsureByName(ctx, cfg.TeamName)
	if err != nil {
		log.Error("ensure team", "err", err)
		os.Exit(1)
	}

	metrics.Init()
	wp := worker.NewPool(4)
	defer wp.Stop()

	mailer := notify.NewMailer(cfg.MailProvider, notify.SESConfig{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretKey,
		FromAddress:     cfg.MailFrom,
		FromName:        cfg.MailFromName,
	})
	notifier := notify.NewNotifier(mailer, wp)

	provider := payments.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, 24*time.Hour)

	teamSvc := services.NewTeamService(store, team.ID)
	userSvc := services.NewUserService(store, teamSvc, tokens)
	eventSvc := services.NewEventService(store, team.ID)
	signupSvc := services.NewSignupService(store, notifier)
	walletSvc := services.NewWalletService(store, provider, notifier, cfg.StripeCurrency, cfg.BaseURL)

	r := api.NewRouter(api.RouterDeps{
		Cfg:    cfg,
		Authn:  middleware.NewAuthMiddleware(tokens),
		Auth:   handlers.NewAuthHandler(userSvc),
		Events: handlers.NewEventsHandler(eventSvc, teamSvc),
		Signup: handlers.NewSignupHandler(signupSvc),
		Wallet: handlers.NewWalletHandler(walletSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "team", team.Name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
