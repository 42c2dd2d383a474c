package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decarv/ome/internal/app/engine"
	"github.com/decarv/ome/internal/app/service"
	orderbookv1 "github.com/decarv/ome/internal/domain/orderbook/v1"
	orderreader "github.com/decarv/ome/internal/usecase/order-reader"
	snapshotcache "github.com/decarv/ome/internal/usecase/snapshot-cache"
	tradepublisher "github.com/decarv/ome/internal/usecase/trade-publisher"
	"github.com/decarv/ome/pkg/config"
	"github.com/decarv/ome/pkg/logger"
	"github.com/decarv/ome/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = []string{cfg.Redis.Addrs}
	redisConfig.Password = cfg.Redis.Password
	redisConfig.Username = cfg.Redis.Username
	redisConfig.DB = cfg.Redis.DB

	rclient := redis.NewClient(log, redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
		return
	}

	eng := engine.NewEngine(orderbookv1.NewBook(), log, cfg.Instrument)
	reader := orderreader.NewReader(cfg.Orders, log)
	publisher := tradepublisher.NewPublisher(cfg.TradeFeed, log)
	cache := snapshotcache.NewStore(rclient, cfg.Instrument, log)

	svc := service.NewServiceWithOptions(eng, reader, publisher, cache, log, cfg.Instrument, &service.Options{
		SnapshotInterval: cfg.SnapshotCache.Interval,
		ReadBackoff:      100 * time.Millisecond,
	})

	if err := svc.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_service"})
		return
	}

	log.Info("matching service started",
		logger.Field{Key: "instrument", Value: cfg.Instrument},
	)

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_service"})
	}

	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "close_trade_publisher"})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
	}

	log.Info("matching service shutdown complete")
}
