// Package pricing implements the cart discount engine: per-item discount
// resolution against a promo's brand and package rate tables, and the
// subtotal/discount/total aggregation persisted on orders.
package pricing

import (
	"math"

	"tokohape/backend/internal/domain"
)

// Line is the resolved pricing for one cart line item.
type Line struct {
	ProductID       string
	Name            string
	Color           string
	Quantity        int
	OriginalPrice   int64
	Price           int64
	DiscountPercent float64
}

// Totals aggregates a cart. Total is always Subtotal minus DiscountAmount;
// DiscountAmount is rounded once from the raw per-item percentages, so the
// identity holds even when rounded per-line prices do not sum exactly.
type Totals struct {
	Subtotal       int64
	DiscountAmount int64
	Total          int64
	Lines          []Line
}

// ItemPercent returns the discount percentage for a single item. Brand rows
// take strict priority: only when the item's brand has no row are package
// rows consulted, matched by package id or product id. An item matches at
// most one row.
func ItemPercent(item domain.CartLineItem, rates domain.PromoRates) float64 {
	if item.BrandID != "" {
		if pct, ok := rates.Brand[item.BrandID]; ok {
			return pct
		}
	}
	if item.PackageID != "" {
		if pct, ok := rates.Package[item.PackageID]; ok {
			return pct
		}
	}
	if pct, ok := rates.Package[item.ProductID]; ok {
		return pct
	}
	return 0
}

// EligiblePercent implements the validation-time policy: the brand path is
// tried first across the whole cart, and the candidate discount is the
// maximum percentage among brand rows matching any item. The package path is
// consulted only when no brand row matched at all. The second return is
// false when the promo applies to nothing in the cart.
func EligiblePercent(items []domain.CartLineItem, rates domain.PromoRates) (float64, bool) {
	best := 0.0
	matched := false
	for _, item := range items {
		if item.BrandID == "" {
			continue
		}
		if pct, ok := rates.Brand[item.BrandID]; ok {
			matched = true
			if pct > best {
				best = pct
			}
		}
	}
	if matched {
		return best, true
	}

	for _, item := range items {
		key := item.PackageID
		if key == "" {
			key = item.ProductID
		}
		if pct, ok := rates.Package[key]; ok {
			matched = true
			if pct > best {
				best = pct
			}
		}
	}
	return best, matched
}

// DiscountedUnitPrice rounds to the nearest whole currency unit; the
// storefront's currency has no subunit display.
func DiscountedUnitPrice(price int64, percent float64) int64 {
	if percent <= 0 {
		return price
	}
	return int64(math.Round(float64(price) - float64(price)*percent/100))
}

// Compute resolves every line against the rates and aggregates the cart.
// A zero-value rates argument (no maps) yields a discount-free quote.
func Compute(items []domain.CartLineItem, rates domain.PromoRates) Totals {
	totals := Totals{Lines: make([]Line, 0, len(items))}
	rawDiscount := 0.0

	for _, item := range items {
		qty := int(item.Quantity)
		if qty < 1 {
			qty = 1
		}
		price := int64(item.Price)
		if price < 0 {
			price = 0
		}

		pct := ItemPercent(item, rates)
		lineSubtotal := price * int64(qty)
		totals.Subtotal += lineSubtotal
		rawDiscount += float64(lineSubtotal) * pct / 100

		totals.Lines = append(totals.Lines, Line{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Color:           item.Color,
			Quantity:        qty,
			OriginalPrice:   price,
			Price:           DiscountedUnitPrice(price, pct),
			DiscountPercent: pct,
		})
	}

	totals.DiscountAmount = int64(math.Round(rawDiscount))
	totals.Total = totals.Subtotal - totals.DiscountAmount
	return totals
}
