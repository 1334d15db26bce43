package cache

import (
	"context"
	"time"

	"tokohape/backend/internal/domain"
)

// PromoRatesCache stores resolved brand/package discount rows per promo code
// so one user action (validate, quote, checkout) does not refetch them.
type PromoRatesCache interface {
	Get(ctx context.Context, key string) (*domain.PromoRates, bool, error)
	Set(ctx context.Context, key string, value *domain.PromoRates, ttl time.Duration) error
}

type NoopPromoRatesCache struct{}

func (NoopPromoRatesCache) Get(_ context.Context, _ string) (*domain.PromoRates, bool, error) {
	return nil, false, nil
}

func (NoopPromoRatesCache) Set(_ context.Context, _ string, _ *domain.PromoRates, _ time.Duration) error {
	return nil
}
