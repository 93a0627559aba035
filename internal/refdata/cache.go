// Package refdata provides cached access to the read-only reference tables.
package refdata

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/backtest-dashboard/internal/models"
	"github.com/yourusername/backtest-dashboard/internal/repository"
)

const (
	symbolsKey = "symbols"
	weightsKey = "timeframe_weights"
)

// Cache fronts the symbols and timeframe_weights tables. Both tables are
// small, change rarely, and are read on every selection call, so entries are
// cached whole. Implements repository.ReferenceRepository, so it drops in
// wherever the uncached repository goes.
type Cache struct {
	repo   repository.ReferenceRepository
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewCache creates a reference data cache with the given TTL
func NewCache(repo repository.ReferenceRepository, ttl time.Duration, logger *logrus.Logger) *Cache {
	return &Cache{
		repo:   repo,
		cache:  cache.New(ttl, ttl*2),
		logger: logger,
	}
}

// ListSymbols returns the cached symbol table, loading it on a miss
func (c *Cache) ListSymbols(ctx context.Context) ([]*models.Symbol, error) {
	if cached, found := c.cache.Get(symbolsKey); found {
		if symbols, ok := cached.([]*models.Symbol); ok {
			return symbols, nil
		}
	}

	symbols, err := c.repo.ListSymbols(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(symbolsKey, symbols)
	return symbols, nil
}

// ListTimeframeWeights returns the cached weight table, loading it on a miss
func (c *Cache) ListTimeframeWeights(ctx context.Context) ([]*models.TimeframeWeight, error) {
	if cached, found := c.cache.Get(weightsKey); found {
		if weights, ok := cached.([]*models.TimeframeWeight); ok {
			return weights, nil
		}
	}

	weights, err := c.repo.ListTimeframeWeights(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(weightsKey, weights)
	return weights, nil
}

// Refresh reloads both tables unconditionally, replacing cached entries
func (c *Cache) Refresh(ctx context.Context) error {
	symbols, err := c.repo.ListSymbols(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh symbols: %w", err)
	}
	weights, err := c.repo.ListTimeframeWeights(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh timeframe weights: %w", err)
	}

	c.cache.SetDefault(symbolsKey, symbols)
	c.cache.SetDefault(weightsKey, weights)

	c.logger.WithFields(logrus.Fields{
		"symbols": len(symbols),
		"weights": len(weights),
	}).Debug("Reference data refreshed")
	return nil
}
