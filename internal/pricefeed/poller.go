// Package pricefeed keeps the Redis price cache warm. A poller fetches the
// subgraph price table on an interval, writes it to the cache, publishes
// updates on the live channel, and snapshots observations into history.
package pricefeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stele-fi/swap-quote-service/internal/models"
	"github.com/stele-fi/swap-quote-service/internal/storage"
)

const sourceName = "subgraph"

// Poller polls a PriceSource and fans observations out to the cache and,
// optionally, the history store.
type Poller struct {
	source       storage.PriceSource
	cache        storage.PriceCache
	history      storage.QuoteStore // optional, may be nil
	symbols      []string
	pollInterval time.Duration
	logger       *logrus.Logger

	mu      sync.Mutex
	running bool
}

// PollerConfig holds configuration for the price poller.
type PollerConfig struct {
	Source       storage.PriceSource
	Cache        storage.PriceCache
	History      storage.QuoteStore
	Symbols      []string
	PollInterval time.Duration
	Logger       *logrus.Logger
}

// NewPoller creates a price poller.
func NewPoller(cfg PollerConfig) *Poller {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}

	return &Poller{
		source:       cfg.Source,
		cache:        cfg.Cache,
		history:      cfg.History,
		symbols:      cfg.Symbols,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger,
	}
}

// Start runs the poll loop until ctx is done. An immediate first poll warms
// the cache before the ticker takes over.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("poller already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	p.logger.WithFields(logrus.Fields{
		"interval": p.pollInterval,
		"symbols":  p.symbols,
	}).Info("starting price polling")

	if err := p.poll(ctx); err != nil {
		p.logger.WithError(err).Error("initial poll failed")
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.logger.WithError(err).Error("poll failed")
			}
		}
	}
}

// poll fetches the table once and distributes every entry. Cache and
// publish failures are logged per symbol and do not abort the sweep;
// history writes are best-effort.
func (p *Poller) poll(ctx context.Context) error {
	table, err := p.source.FetchPrices(ctx, p.symbols)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}

	now := time.Now().UTC()
	updated := 0
	for symbol, entry := range table {
		point := models.PricePoint{
			Symbol:    symbol,
			PriceUSD:  entry.PriceUSD,
			Source:    sourceName,
			Timestamp: now,
		}

		if err := p.cache.UpdatePrice(ctx, point); err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).Error("price cache update failed")
			continue
		}
		updated++

		if err := p.cache.PublishPrice(ctx, point); err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).Warn("price publish failed")
		}
		if p.history != nil {
			if err := p.history.InsertPricePoint(ctx, point); err != nil {
				p.logger.WithError(err).WithField("symbol", symbol).Warn("price history insert failed")
			}
		}
	}

	p.logger.WithFields(logrus.Fields{
		"fetched": len(table),
		"updated": updated,
	}).Debug("price sweep complete")
	return nil
}
