package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stele-fi/swap-quote-service/internal/constants"
	"github.com/stele-fi/swap-quote-service/internal/models"
)

// ErrPriceNotFound is returned when no cached price exists for a symbol.
var ErrPriceNotFound = fmt.Errorf("price not found")

// RedisCache implements storage.PriceCache on a Redis client. Prices live
// under per-symbol keys with a TTL so a stalled feed reads as "unknown"
// rather than stale; served quotes go to a capped list for the API.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisCacheFromClient wraps an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}
}

func priceKey(symbol string) string {
	return constants.RedisKeyPricePrefix + strings.ToUpper(symbol)
}

// UpdatePrice stores the latest observation for a symbol with the cache TTL.
func (r *RedisCache) UpdatePrice(ctx context.Context, point models.PricePoint) error {
	if point.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	val := strconv.FormatFloat(point.PriceUSD, 'f', -1, 64)
	if err := r.client.Set(ctx, priceKey(point.Symbol), val, constants.PriceTTL).Err(); err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	return nil
}

// GetPrice returns the cached USD price for a symbol. A missing or expired
// entry is ErrPriceNotFound, which callers map to "cannot quote".
func (r *RedisCache) GetPrice(ctx context.Context, symbol string) (float64, error) {
	val, err := r.client.Get(ctx, priceKey(symbol)).Result()
	if err == redis.Nil {
		return 0, ErrPriceNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get price: %w", err)
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cached price: %w", err)
	}
	return price, nil
}

// GetPriceTable fetches the given symbols in one MGET. Symbols without a
// cached price are simply absent from the table.
func (r *RedisCache) GetPriceTable(ctx context.Context, symbols []string) (models.PriceTable, error) {
	table := models.PriceTable{}
	if len(symbols) == 0 {
		return table, nil
	}

	keys := make([]string, 0, len(symbols))
	for _, s := range symbols {
		keys = append(keys, priceKey(s))
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget prices: %w", err)
	}
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			r.logger.WithField("symbol", symbols[i]).Warn("unparseable cached price, skipping")
			continue
		}
		table[strings.ToUpper(symbols[i])] = models.PriceEntry{PriceUSD: price}
	}
	return table, nil
}

// AddRecentQuote pushes a served quote onto the capped recent list.
func (r *RedisCache) AddRecentQuote(ctx context.Context, rec *models.QuoteRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal quote record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, constants.RedisKeyRecentQuotes, b)
	pipe.LTrim(ctx, constants.RedisKeyRecentQuotes, 0, constants.MaxRecentQuotes-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add recent quote: %w", err)
	}
	return nil
}

// GetRecentQuotes returns up to limit of the most recently served quotes,
// newest first.
func (r *RedisCache) GetRecentQuotes(ctx context.Context, limit int64) ([]*models.QuoteRecord, error) {
	if limit <= 0 || limit > constants.MaxRecentQuotes {
		limit = constants.MaxRecentQuotes
	}
	vals, err := r.client.LRange(ctx, constants.RedisKeyRecentQuotes, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange recent quotes: %w", err)
	}

	out := make([]*models.QuoteRecord, 0, len(vals))
	for _, v := range vals {
		var rec models.QuoteRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			r.logger.WithError(err).Warn("skipping corrupt quote record")
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}

// PublishPrice publishes a price update to the live channel.
func (r *RedisCache) PublishPrice(ctx context.Context, point models.PricePoint) error {
	b, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("marshal price point: %w", err)
	}
	if err := r.client.Publish(ctx, constants.PubSubChannelPrices, b).Err(); err != nil {
		return fmt.Errorf("publish price: %w", err)
	}
	return nil
}

// SubscribePrices subscribes to live price updates. The returned channel
// closes when ctx is done.
func (r *RedisCache) SubscribePrices(ctx context.Context) (<-chan models.PricePoint, error) {
	pubsub := r.client.Subscribe(ctx, constants.PubSubChannelPrices)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe prices: %w", err)
	}

	out := make(chan models.PricePoint)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var point models.PricePoint
				if err := json.Unmarshal([]byte(msg.Payload), &point); err != nil {
					r.logger.WithError(err).Warn("skipping corrupt price update")
					continue
				}
				select {
				case out <- point:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
