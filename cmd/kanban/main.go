package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"kanban/internal/api"
	"kanban/internal/config"
	"kanban/internal/logging"
	"kanban/internal/repository"
	"kanban/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log, closer, err := logging.Setup(cfg.Env, cfg.LogFile)
	if err != nil {
		logrus.Fatalf("logging: %v", err)
	}
	defer closer.Close()

	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	var rc *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		rc = redis.NewClient(opts)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unavailable, task cache falls back to the database")
		}
	}

	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	taskStore := repository.NewTaskCache(repository.NewTaskRepository(db), rc, cfg.TasksCacheTTL)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	locks := service.NewBoardLocks()
	boardSvc := service.NewBoardService(boardRepo, taskStore, locks)
	taskSvc := service.NewTaskService(taskStore, boardSvc, locks, log)
	compactSvc := service.NewCompactionService(boardRepo, taskStore, locks, log)

	scheduler := service.NewSchedulerService(time.Local, log)
	compact := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := compactSvc.CompactAll(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("compaction")
		}
	}
	if cfg.CompactInterval > 0 {
		if _, err := scheduler.ScheduleInterval("compact", cfg.CompactInterval, compact); err != nil {
			log.Fatalf("schedule compaction: %v", err)
		}
	}
	if cfg.CompactAt != "" {
		if _, err := scheduler.ScheduleDaily("compact", cfg.CompactAt, compact); err != nil {
			log.Fatalf("schedule compaction: %v", err)
		}
	}
	if scheduler.Entries() > 0 {
		scheduler.Start()
		defer scheduler.Stop()
	}

	e := api.NewEcho(log)
	api.New(authSvc, boardSvc, taskSvc, log, api.Options{CookieSecure: cfg.CookieSecure}).Register(e)

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("kanban server started")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("Shutdown complete.")
}
