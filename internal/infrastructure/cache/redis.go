package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "inventory:valuation"

var _ inventory.ValuationCache = (*ValuationCache)(nil)

// NewClient abre el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// ValuationCache caché de lectura de valorizaciones por par+método. La fuente de verdad es stock_valuations.
type ValuationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValuationCache construye la caché. ttl <= 0 deja las claves sin expiración.
func NewValuationCache(client *redis.Client, ttl time.Duration) *ValuationCache {
	return &ValuationCache{client: client, ttl: ttl}
}

type cachedValuation struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Method         string          `json:"method"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	LastCalculated time.Time       `json:"last_calculated"`
}

// Key inventory:valuation:{product}:{location}:{method}.
func Key(pair entity.PairKey, method entity.ValuationMethod) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, pair.ProductID, pair.LocationID, method)
}

// Get devuelve (nil, nil) en un miss.
func (c *ValuationCache) Get(ctx context.Context, pair entity.PairKey, method entity.ValuationMethod) (*entity.StockValuation, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, Key(pair, method)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get: %w", err)
	}
	var v cachedValuation
	if err := json.Unmarshal(raw, &v); err != nil {
		// entrada corrupta: se trata como miss y se descarta
		_ = c.client.Del(ctx, Key(pair, method)).Err()
		return nil, nil
	}
	return &entity.StockValuation{
		ProductID:      v.ProductID,
		LocationID:     v.LocationID,
		Method:         entity.ValuationMethod(v.Method),
		CurrentValue:   v.CurrentValue,
		AverageCost:    v.AverageCost,
		LastCalculated: v.LastCalculated,
	}, nil
}

func (c *ValuationCache) Set(ctx context.Context, v *entity.StockValuation) error {
	if c == nil || c.client == nil || v == nil {
		return nil
	}
	body, err := json.Marshal(cachedValuation{
		ProductID:      v.ProductID,
		LocationID:     v.LocationID,
		Method:         string(v.Method),
		CurrentValue:   v.CurrentValue,
		AverageCost:    v.AverageCost,
		LastCalculated: v.LastCalculated,
	})
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	pair := entity.PairKey{ProductID: v.ProductID, LocationID: v.LocationID}
	if err := c.client.Set(ctx, Key(pair, v.Method), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

// Invalidate borra las entradas de todos los métodos de cada par.
func (c *ValuationCache) Invalidate(ctx context.Context, pairs ...entity.PairKey) error {
	if c == nil || c.client == nil || len(pairs) == 0 {
		return nil
	}
	methods := []entity.ValuationMethod{
		entity.ValuationFIFO, entity.ValuationLIFO, entity.ValuationWeightedAverage, entity.ValuationSpecific,
	}
	keys := make([]string, 0, len(pairs)*len(methods))
	for _, p := range pairs {
		for _, m := range methods {
			keys = append(keys, Key(p, m))
		}
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: invalidate: %w", err)
	}
	return nil
}
