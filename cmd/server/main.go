package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/cakeshop/config"
	_ "github.com/d60-Lab/cakeshop/docs"
	"github.com/d60-Lab/cakeshop/internal/api"
	"github.com/d60-Lab/cakeshop/internal/api/handler"
	"github.com/d60-Lab/cakeshop/internal/repository"
	"github.com/d60-Lab/cakeshop/internal/service"
	"github.com/d60-Lab/cakeshop/pkg/cache"
	"github.com/d60-Lab/cakeshop/pkg/database"
	"github.com/d60-Lab/cakeshop/pkg/logger"
	"github.com/d60-Lab/cakeshop/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// @title cakeshop API
// @version 1.0
// @description 蛋糕店购物车与订单服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.L().Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing := must(tracing.Init(context.Background(), cfg, "cakeshop"))
	defer func() { _ = shutdownTracing(context.Background()) }()

	db := must(database.InitDB(cfg))

	rdb, err := cache.InitRedis(cfg)
	if err != nil {
		// 购物车依赖 Redis；菜单缓存可降级，这里仅告警后继续
		logger.L().Warn("redis unavailable, cart operations will fail", zap.Error(err))
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewCartRepository(rdb, cfg.Cart.TTL)

	ledger := service.NewInventoryLedger(productRepo)
	cartSvc := service.NewCartService(productRepo, cartRepo, ledger)
	orderSvc := service.NewOrderService(db, orderRepo, cartRepo, ledger)
	lifecycleSvc := service.NewLifecycleService(db, orderRepo, ledger)
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expire)

	h := handler.New(authSvc, cartSvc, orderSvc, lifecycleSvc, productRepo, rdb)
	r := api.NewRouter(cfg, h)

	logger.L().Info("cakeshop listening", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
