package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ZdravkoRistic/qtotal/internal/ai"
	"github.com/ZdravkoRistic/qtotal/internal/auth"
	"github.com/ZdravkoRistic/qtotal/internal/calendar"
	"github.com/ZdravkoRistic/qtotal/internal/config"
	"github.com/ZdravkoRistic/qtotal/internal/httpapi"
	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
	"github.com/ZdravkoRistic/qtotal/internal/notify"
	"github.com/ZdravkoRistic/qtotal/internal/schedule"
	"github.com/ZdravkoRistic/qtotal/pkg/logger"
	"github.com/ZdravkoRistic/qtotal/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	// The store is opened best-effort: an unreachable database must not keep
	// the process from serving degraded acknowledgments on the contact form.
	repo := openRepo(rootCtx, cfg, log)
	rdb := openRedis(rootCtx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	svc := inquiry.NewService(
		repo,
		buildAssistant(rootCtx, cfg, log),
		buildNotifier(cfg, log),
		buildBooker(cfg, log),
		inquiry.Options{
			Locker:      buildLocker(rdb),
			Logger:      log,
			AITimeout:   cfg.Gemini.Timeout,
			BookTimeout: cfg.Calendar.Timeout,
		},
	)

	h := httpapi.Handlers{
		Inquiries: svc,
		Auth:      authManager,
		AuthCfg:   cfg.Auth,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	registerRoutes(r, h, authManager, rdb, cfg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// openRepo returns the durable store when Postgres is configured and
// reachable. When the initial connection fails the pool is still handed to
// the repository: per-request pings decide degraded mode, and the store
// recovers without a restart once the database is back.
func openRepo(ctx context.Context, cfg config.Config, log *slog.Logger) inquiry.Repository {
	if cfg.DB.Host == "" {
		log.Warn("no database configured, using in-memory store")
		return inquiry.NewMemoryRepo()
	}

	db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Warn("postgres unreachable at startup, continuing in degraded mode", "err", err)
		db, err = sql.Open("pgx", cfg.PostgresDSN())
		if err != nil {
			log.Error("postgres open failed", "err", err)
			os.Exit(1)
		}
		return inquiry.NewPostgresRepo(db)
	}

	repo := inquiry.NewPostgresRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warn("schema init failed", "err", err)
	}
	return repo
}

func openRedis(ctx context.Context, cfg config.Config, log *slog.Logger) *redis.Client {
	if !cfg.Redis.Enabled() {
		log.Warn("no redis configured, rate limiting and confirmation locks disabled")
		return nil
	}
	rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Warn("redis unreachable, rate limiting and confirmation locks disabled", "err", err)
		return nil
	}
	return rdb
}

func buildLocker(rdb *redis.Client) inquiry.Locker {
	if rdb == nil {
		return nil
	}
	return inquiry.NewRedisLocker(rdb)
}

func buildAssistant(ctx context.Context, cfg config.Config, log *slog.Logger) inquiry.Assistant {
	if !cfg.Gemini.Enabled() {
		log.Warn("no gemini api key, classification falls back to Unknown")
		return nil
	}
	client, err := ai.NewClient(ctx, ai.Config{APIKey: cfg.Gemini.APIKey, Model: cfg.Gemini.Model})
	if err != nil {
		log.Warn("gemini init failed, classification falls back to Unknown", "err", err)
		return nil
	}
	return client
}

func buildNotifier(cfg config.Config, log *slog.Logger) inquiry.Notifier {
	if !cfg.SMTP.Enabled() {
		log.Warn("no smtp configured, notification emails disabled")
		return nil
	}
	mailer := notify.NewSMTPMailer(notify.Config{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		FromEmail:  cfg.SMTP.FromEmail,
		FromName:   cfg.SMTP.FromName,
		AdminEmail: cfg.SMTP.AdminEmail,
		BaseURL:    cfg.App.BaseURL,
		Enabled:    true,
	}, log)

	verifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mailer.Verify(verifyCtx); err != nil {
		log.Warn("smtp verification failed, sends may not go through", "err", err)
	}
	return mailer
}

func buildBooker(cfg config.Config, log *slog.Logger) inquiry.Booker {
	if !cfg.Calendar.Enabled() {
		log.Warn("no calendar credentials, confirmations will report booking failure")
		return nil
	}
	creds := calendar.FileCredentials{
		CredentialsPath: cfg.Calendar.CredentialsFile,
		TokenPath:       cfg.Calendar.TokenFile,
	}
	tz := cfg.Calendar.TimeZone
	if tz == "" {
		tz = schedule.DefaultTimeZone
	}
	return calendar.NewGoogleBooker(creds, calendar.Config{
		CalendarID: cfg.Calendar.CalendarID,
		TimeZone:   tz,
		AdminEmail: cfg.SMTP.AdminEmail,
	})
}
