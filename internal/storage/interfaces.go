package storage

import (
	"context"
	"io"

	"github.com/stele-fi/swap-quote-service/internal/models"
)

// PriceCache defines the interface for the hot price/quote cache.
type PriceCache interface {
	// UpdatePrice stores the current USD price for a token
	UpdatePrice(ctx context.Context, point models.PricePoint) error

	// GetPrice retrieves the current USD price for a token
	GetPrice(ctx context.Context, symbol string) (float64, error)

	// GetPriceTable retrieves all cached prices as one table
	GetPriceTable(ctx context.Context, symbols []string) (models.PriceTable, error)

	// AddRecentQuote adds a served quote to the recent-quotes list
	AddRecentQuote(ctx context.Context, rec *models.QuoteRecord) error

	// GetRecentQuotes retrieves the most recently served quotes
	GetRecentQuotes(ctx context.Context, limit int64) ([]*models.QuoteRecord, error)

	// PublishPrice publishes a price update to the live channel
	PublishPrice(ctx context.Context, point models.PricePoint) error

	// SubscribePrices subscribes to real-time price updates
	SubscribePrices(ctx context.Context) (<-chan models.PricePoint, error)

	// Ping checks if the cache is reachable
	Ping(ctx context.Context) error

	// Close closes the cache connection
	io.Closer
}

// QuoteStore defines the interface for persistent quote/price history.
type QuoteStore interface {
	// InsertQuote inserts a served quote into history
	InsertQuote(ctx context.Context, rec *models.QuoteRecord) error

	// InsertPricePoint inserts a price observation into history
	InsertPricePoint(ctx context.Context, point models.PricePoint) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close closes the store connection
	io.Closer
}

// PriceSource supplies the externally owned USD price table.
type PriceSource interface {
	// FetchPrices returns the current price table for the given symbols
	FetchPrices(ctx context.Context, symbols []string) (models.PriceTable, error)
}
