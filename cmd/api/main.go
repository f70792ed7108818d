package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "coop-lending/internal/adapter/http"
	"coop-lending/internal/adapter/repository/mysql"
	"coop-lending/internal/config"
	"coop-lending/internal/infrastructure/cache"
	"coop-lending/internal/infrastructure/db"
	"coop-lending/internal/infrastructure/logger"
	"coop-lending/internal/infrastructure/scheduler"
	adminlogUC "coop-lending/internal/usecase/adminlog"
	approvalUC "coop-lending/internal/usecase/approval"
	guarantorUC "coop-lending/internal/usecase/guarantor"
	lifecycleUC "coop-lending/internal/usecase/lifecycle"
	loanUC "coop-lending/internal/usecase/loan"
	memberUC "coop-lending/internal/usecase/member"
	notificationUC "coop-lending/internal/usecase/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("load config")
	}
	log := logger.Init(logger.Options{
		Level:       cfg.Log.Level,
		Environment: cfg.Environment,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	gdb, err := db.Open(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("migrate database")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("database handle")
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("connect redis")
	}
	defer rdb.Close()

	// repositories + unit of work
	tx := mysql.NewGormUoW(gdb)
	members := mysql.NewMemberRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	notifications := mysql.NewNotificationRepository(gdb)

	lending := cfg.Lending
	memberSvc := memberUC.NewUsecase(members, tx, lending.DormantAfter(), log)
	lifecycleSvc := lifecycleUC.NewUsecase(loans, tx, lifecycleUC.Settings{
		GracePeriod: lending.GracePeriod(),
		FineRate:    lending.FineRate(),
	}, log)

	e := httpadp.NewRouter(httpadp.Deps{
		Members: memberSvc,
		Loans: loanUC.NewUsecase(loans, members, tx, loanUC.Settings{
			InterestRate:      lending.InterestRate(),
			SavingsMultiplier: lending.SavingsMultiplier,
			GracePeriod:       lending.GracePeriod(),
		}),
		Guarantors:    guarantorUC.NewUsecase(notifications, loans, members, tx, log),
		Notifications: notificationUC.NewUsecase(notifications),
		Approvals:     approvalUC.NewUsecase(tx, lending.InterestRate(), log),
		Lifecycle:     lifecycleSvc,
		AdminLogs:     adminlogUC.NewUsecase(mysql.NewAdminLogRepository(gdb)),

		DB:             sqlDB,
		Redis:          rdb,
		JWTSecret:      []byte(cfg.JWTSecret),
		TokenTTL:       cfg.TokenTTL(),
		IdempotencyTTL: cfg.IdempotencyTTL(),
		Log:            log,
	})

	var jobs *scheduler.Scheduler
	if cfg.Jobs.Enabled {
		jobs = scheduler.New(lifecycleSvc, memberSvc, log, cfg.Jobs.FineSpec, cfg.Jobs.DormancySpec)
		if err := jobs.Start(); err != nil {
			log.WithError(err).Fatal("start scheduler")
		}
	}

	addr := ":" + cfg.AppPort
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if jobs != nil {
		jobs.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
}
