package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	"github.com/BruksfildServices01/studio-booking/internal/cache"
	"github.com/BruksfildServices01/studio-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/studio-booking/internal/db"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/dto"
	infraRepo "github.com/BruksfildServices01/studio-booking/internal/infra/repository"
	"github.com/BruksfildServices01/studio-booking/internal/logger"
	"github.com/BruksfildServices01/studio-booking/internal/media"
	"github.com/BruksfildServices01/studio-booking/internal/middleware"
	"github.com/BruksfildServices01/studio-booking/internal/reminder"
	"github.com/BruksfildServices01/studio-booking/internal/routes"
	"github.com/BruksfildServices01/studio-booking/internal/store"
	"github.com/BruksfildServices01/studio-booking/internal/timezone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := buildPolicy(cfg)
	if err != nil {
		return err
	}

	// ======================================================
	// 🗄️ STORAGE
	// ======================================================
	var (
		repo *infraRepo.EntityGormRepository
		sink audit.Sink = audit.NewMemorySink()
		opts            = []store.Option{store.WithLogger(zl)}
	)

	if cfg.DBUrl != "" {
		db, err := dbpkg.NewDB(cfg, zl)
		if err != nil {
			return err
		}
		defer dbpkg.Close(db) //nolint:errcheck

		repo = infraRepo.NewEntityGormRepository(db)
		opts = append(opts, store.WithPersister(repo))
		sink = audit.NewGormSink(db)
	} else {
		zl.Warn("DATABASE_URL not set, data lives in memory only")
	}

	st := store.New(opts...)
	if repo != nil {
		if err := st.Load(ctx, repo); err != nil {
			return err
		}
	}

	return serve(ctx, cfg, zl, policy, st, sink)
}

func serve(
	ctx context.Context,
	cfg *config.Config,
	zl *zap.Logger,
	policy domain.Policy,
	st *store.Store,
	sink audit.Sink,
) error {
	defer st.Close() //nolint:errcheck

	dispatcher := audit.NewDispatcher(sink, zl)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := dispatcher.Close(closeCtx); err != nil {
			zl.Warn("audit queue not drained", zap.Error(err))
		}
	}()

	// ======================================================
	// ⚡ REDIS (CACHE + REMINDERS)
	// ======================================================
	var (
		c         cache.Cache        = cache.NewMemory()
		reminders reminder.Scheduler = reminder.Nop{}
	)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Warn("redis unreachable, using in-process cache", zap.Error(err))
		} else {
			c = cache.NewRedis(rdb)
		}

		if cfg.RemindersEnabled {
			opt := asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			}
			tmpl := reminder.Template{Text: cfg.ReminderTemplate, Business: cfg.BusinessName}

			scheduler := reminder.NewAsynqScheduler(opt, tmpl, cfg.ReminderOffsets, zl)
			defer scheduler.Close() //nolint:errcheck
			reminders = scheduler

			worker := reminder.NewWorker(opt, reminder.LogSender{Log: zl}, zl)
			if err := worker.Start(); err != nil {
				return err
			}
			defer worker.Shutdown()
		}
	} else if cfg.RemindersEnabled {
		zl.Warn("REMINDERS_ENABLED requires REDIS_ADDR, reminders are off")
	}

	// ======================================================
	// 🖼️ MEDIA
	// ======================================================
	var uploader *media.Uploader
	if cfg.S3Bucket != "" {
		client := media.NewS3Client(media.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		uploader = media.NewUploader(client, cfg.S3Bucket)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Close()

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Store:          st,
		Policy:         policy,
		Audit:          dispatcher,
		Cache:          c,
		Reminders:      reminders,
		Uploader:       uploader,
		Limiter:        limiter,
		Settings:       settings(cfg, policy),
		Log:            zl,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()), zap.String("snapshot", st.Snapshot().Tag()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildPolicy(cfg *config.Config) (domain.Policy, error) {
	opens, err := domain.ParseClock(cfg.OpeningTime)
	if err != nil {
		return domain.Policy{}, err
	}
	closes, err := domain.ParseClock(cfg.ClosingTime)
	if err != nil {
		return domain.Policy{}, err
	}
	if cfg.EnforceBusinessHours && closes <= opens {
		return domain.Policy{}, errors.New("CLOSING_TIME must be after OPENING_TIME")
	}

	return domain.Policy{
		Location:             timezone.Location(cfg.BusinessTimezone),
		Granularity:          time.Duration(cfg.SlotGranularityMin) * time.Minute,
		OpensAt:              opens,
		ClosesAt:             closes,
		EnforceBusinessHours: cfg.EnforceBusinessHours,
		AllowPastBookings:    cfg.AllowPastBookings,
		DefaultDuration:      time.Duration(cfg.DefaultDurationMin) * time.Minute,
		PhoneRegion:          cfg.DefaultCountry,
		Currency:             cfg.Currency,
	}, nil
}

func settings(cfg *config.Config, p domain.Policy) dto.SettingsDTO {
	return dto.SettingsDTO{
		BusinessName:         cfg.BusinessName,
		Timezone:             p.Loc().String(),
		Country:              cfg.DefaultCountry,
		Currency:             cfg.Currency,
		OpeningTime:          cfg.OpeningTime,
		ClosingTime:          cfg.ClosingTime,
		EnforceBusinessHours: cfg.EnforceBusinessHours,
		SlotGranularityMin:   cfg.SlotGranularityMin,
		DefaultDurationMin:   cfg.DefaultDurationMin,
		AllowPastBookings:    cfg.AllowPastBookings,
		RemindersEnabled:     cfg.RemindersEnabled && cfg.RedisAddr != "",
	}
}
