package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stele-fi/swap-quote-service/internal/cache"
	"github.com/stele-fi/swap-quote-service/internal/config"
	"github.com/stele-fi/swap-quote-service/internal/constants"
	"github.com/stele-fi/swap-quote-service/internal/graph"
	"github.com/stele-fi/swap-quote-service/internal/pricefeed"
	"github.com/stele-fi/swap-quote-service/internal/storage"
)

func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// watchSymbols returns the watchlist: WATCH_SYMBOLS when set, otherwise the
// well-known fallback tokens.
func watchSymbols() []string {
	if raw := os.Getenv("WATCH_SYMBOLS"); raw != "" {
		var out []string
		for _, s := range strings.Split(raw, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	out := make([]string, 0, len(constants.FallbackTokens))
	for symbol := range constants.FallbackTokens {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

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

	// History is optional; the cache alone keeps the API serving.
	var history storage.QuoteStore
	if cfg.ClickHouseAddr != "" {
		store, err := cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("price history disabled, ClickHouse unavailable")
		} else {
			history = store
			defer func() {
				_ = store.Close()
			}()
		}
	}

	graphClient := graph.NewClient(graph.ClientConfig{
		Endpoint:     cfg.SubgraphURL,
		APIKey:       cfg.SubgraphAPIKey,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	poller := pricefeed.NewPoller(pricefeed.PollerConfig{
		Source:       graphClient,
		Cache:        priceCache,
		History:      history,
		Symbols:      watchSymbols(),
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	if err := poller.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("price poller failed")
	}
	logger.Info("price poller stopped")
}
