package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	cacheadp "studentloan-backend/internal/adapter/cache"
	httpadp "studentloan-backend/internal/adapter/http"
	"studentloan-backend/internal/adapter/middleware"
	"studentloan-backend/internal/adapter/repository/mysql"
	"studentloan-backend/internal/auth"
	"studentloan-backend/internal/config"
	"studentloan-backend/internal/infrastructure/cache"
	"studentloan-backend/internal/infrastructure/db"
	"studentloan-backend/internal/infrastructure/storage"
	ucApp "studentloan-backend/internal/usecase/application"
	"studentloan-backend/internal/usecase/kyc"
	ucUser "studentloan-backend/internal/usecase/user"
	"studentloan-backend/pkg/id"
	"studentloan-backend/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		fatal("invalid config", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		fatal("mysql connect failed", err)
	}
	if err := db.Migrate(gdb); err != nil {
		fatal("mysql migrate failed", err)
	}
	sqlDB, _ := gdb.DB()
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		fatal("redis connect failed", err)
	}
	defer rdb.Close()

	blobs, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
	if err != nil {
		fatal("gcs client failed", err)
	}
	defer blobs.Close(context.Background())

	// repositories + unit of work
	histories := mysql.NewApplicationRepository(gdb)
	details := mysql.NewDetailRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	orphans := cacheadp.NewRedisOrphanLedger(rdb)
	if n, err := orphans.Size(ctx); err == nil && n > 0 {
		slog.Warn("orphaned loan applications pending sweep", slog.Int64("count", n))
	}

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	// usecases
	appUC := ucApp.NewUsecase(histories, details, tx,
		ucApp.WithOrphanLedger(orphans),
		ucApp.WithTransitionPolicy(cfg.EnforceTransitions),
		ucApp.WithCompensationTimeout(cfg.CompensationTimeout),
	)
	userUC := ucUser.NewUsecase(users, tx, tokens)
	kycUC := kyc.NewUsecase(users, blobs)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: id.NewID32}),
		middleware.RequestContext(),
		middleware.RequestLogger(),
		echomw.Recover(),
	)

	httpadp.Routes{
		Health: httpadp.NewHandler(map[string]httpadp.Pinger{
			"mysql": sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Users:          httpadp.NewUserHandler(userUC),
		KYC:            httpadp.NewKYCHandler(kycUC),
		Applications:   httpadp.NewApplicationHandler(appUC),
		Tokens:         tokens,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
	}.Mount(e)

	addr := ":" + cfg.AppPort
	go func() {
		slog.Info("listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server stopped", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		slog.Error("shutdown", slog.Any("error", err))
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
