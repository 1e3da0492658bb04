// Example consumer for the live price channel. Useful for smoke-testing the
// feed without running the full API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stele-fi/swap-quote-service/internal/cache"
	"github.com/stele-fi/swap-quote-service/internal/config"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	priceCache := cache.NewRedisCacheFromClient(rclient, logger)
	defer func() {
		_ = priceCache.Close()
	}()

	updates, err := priceCache.SubscribePrices(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to subscribe to price updates")
	}

	logger.Info("listening for price updates")
	for point := range updates {
		logger.WithFields(logrus.Fields{
			"symbol": point.Symbol,
			"price":  point.PriceUSD,
			"source": point.Source,
		}).Info("price update")
	}
	logger.Info("subscriber stopped")
}
