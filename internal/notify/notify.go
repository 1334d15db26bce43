// Package notify sends the post-checkout order notification. Delivery is
// best-effort: a failure here never rolls back or fails the checkout.
package notify

import (
	"context"

	"tokohape/backend/internal/domain"
)

type Notifier interface {
	OrderCreated(ctx context.Context, order domain.Order, payment domain.PaymentMethod) error
}

type Noop struct{}

func (Noop) OrderCreated(_ context.Context, _ domain.Order, _ domain.PaymentMethod) error {
	return nil
}
