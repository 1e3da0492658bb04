package cache

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/stele-fi/swap-quote-service/internal/models"
)

// ClickHouseConfig holds connection settings for the history store.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	Logger   *logrus.Logger
}

// ClickHouseStore implements storage.QuoteStore. Quote and price history is
// analytics-only: the cache stays the serving path and rows here are never
// read back into quoting.
type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	cfg.Logger.WithField("addr", cfg.Addr).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, logger: cfg.Logger}, nil
}

func (c *ClickHouseStore) InsertQuote(ctx context.Context, rec *models.QuoteRecord) error {
	query := `
		INSERT INTO quotes (
			timestamp, from_token, to_token, from_amount, to_amount,
			exchange_rate, price_impact, minimum_received, protocol_fee, estimate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		rec.Timestamp,
		rec.FromToken,
		rec.ToToken,
		rec.FromAmount,
		rec.ToAmount,
		rec.ExchangeRate,
		rec.PriceImpact,
		rec.MinimumReceived,
		rec.ProtocolFee,
		rec.Estimate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) InsertPricePoint(ctx context.Context, point models.PricePoint) error {
	query := `
		INSERT INTO prices (timestamp, symbol, price_usd, source)
		VALUES (?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		point.Timestamp,
		point.Symbol,
		point.PriceUSD,
		point.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price point: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
