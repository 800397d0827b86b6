package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// RateSource is anything able to answer daily FX rate lookups; the Store
// itself satisfies it.
type RateSource interface {
	FXRate(date time.Time, base, quote string) (decimal.Decimal, bool, error)
}

// CachedRates memoizes rate lookups. Valuations hit the same handful of
// currency pairs once per position row; caching keeps that off the disk.
type CachedRates struct {
	source RateSource
	cache  *gocache.Cache
}

// NewCachedRates wraps source with an expiring in-memory cache.
func NewCachedRates(source RateSource, ttl time.Duration) *CachedRates {
	return &CachedRates{
		source: source,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

// FXRate implements RateSource.
func (c *CachedRates) FXRate(date time.Time, base, quote string) (decimal.Decimal, bool, error) {
	key := formatDate(date) + "/" + base + "/" + quote
	if cached, ok := c.cache.Get(key); ok {
		return cached.(decimal.Decimal), true, nil
	}

	rate, ok, err := c.source.FXRate(date, base, quote)
	if err != nil || !ok {
		return decimal.Decimal{}, ok, err
	}
	c.cache.Set(key, rate, gocache.DefaultExpiration)
	return rate, true, nil
}
