package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Amount is a price in whole currency units. The storefront client is
// loosely typed and may send prices as JSON numbers or numeric strings;
// unmarshalling coerces both, rounding fractional values.
type Amount int64

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = 0
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(math.Round(parsed))
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return err
	}
	*a = Amount(math.Round(f))
	return nil
}

// Count is a line-item quantity with the same coercion rules as Amount.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	var a Amount
	if err := a.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = Count(a)
	return nil
}

type Product struct {
	ID        string    `json:"id"`
	BrandID   string    `json:"brand_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	PriceUnit int64     `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductCreateRequest struct {
	ID       string `json:"id"`
	BrandID  string `json:"brand_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	ImageURL string `json:"image_url"`
	Price    int64  `json:"price"`
}

type ProductUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	Price    *int64  `json:"price,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Package is a bundle catalog entry sold as a single line item.
type Package struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	PriceUnit int64     `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type PackageCreateRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Price    int64  `json:"price"`
}

// CartLineItem is a cart entry as sent by the storefront client. Exactly one
// of the brand path (BrandID set, single products) or the package path
// (PackageID set, bundles) applies when matching discounts.
type CartLineItem struct {
	ProductID string `json:"product_id"`
	BrandID   string `json:"brand_id,omitempty"`
	PackageID string `json:"package_id,omitempty"`
	Name      string `json:"name,omitempty"`
	ImageURL  string `json:"image,omitempty"`
	Color     string `json:"color,omitempty"`
	Price     Amount `json:"price"`
	Quantity  Count  `json:"quantity"`
}

type PromoCode struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type BrandDiscount struct {
	ID              string  `json:"id"`
	PromoCodeID     string  `json:"promo_code_id"`
	BrandID         string  `json:"brand_id"`
	DiscountPercent float64 `json:"discount_percentage"`
}

type PackageDiscount struct {
	ID              string  `json:"id"`
	PromoCodeID     string  `json:"promo_code_id"`
	PackageID       string  `json:"package_id"`
	DiscountPercent float64 `json:"discount_percentage"`
}

// PromoRates is the immutable per-action resolution of a promo's discount
// rows, keyed by brand id and package id.
type PromoRates struct {
	PromoCodeID string             `json:"promo_code_id"`
	Code        string             `json:"code"`
	Brand       map[string]float64 `json:"brand"`
	Package     map[string]float64 `json:"package"`
}

// AppliedPromo is the cart-level badge shown after a successful validation:
// the code plus the maximum matching percentage for the current cart.
type AppliedPromo struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount"`
}

type PromoValidateRequest struct {
	Code  string         `json:"code"`
	Items []CartLineItem `json:"items"`
}

type PromoCreateRequest struct {
	Code string `json:"code"`
}

type BrandDiscountCreateRequest struct {
	BrandID         string  `json:"brand_id"`
	DiscountPercent float64 `json:"discount_percentage"`
}

type PackageDiscountCreateRequest struct {
	PackageID       string  `json:"package_id"`
	DiscountPercent float64 `json:"discount_percentage"`
}

type PromoToggleRequest struct {
	Active bool `json:"active"`
}

// PromoCodeDetail bundles a promo with its discount rows for the admin UI.
type PromoCodeDetail struct {
	PromoCode        PromoCode         `json:"promo_code"`
	BrandDiscounts   []BrandDiscount   `json:"brand_discounts"`
	PackageDiscounts []PackageDiscount `json:"package_discounts"`
}

type CartQuoteRequest struct {
	CartID    string         `json:"cart_id"`
	PromoCode string         `json:"promo_code,omitempty"`
	Items     []CartLineItem `json:"items"`
}

// QuotedItem carries the per-item discount resolution for one cart line.
type QuotedItem struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name,omitempty"`
	Quantity        int     `json:"quantity"`
	OriginalPrice   int64   `json:"original_price"`
	Price           int64   `json:"price"`
	DiscountPercent float64 `json:"discount_percent"`
}

type CartQuote struct {
	CartID         string        `json:"cart_id,omitempty"`
	Subtotal       int64         `json:"subtotal"`
	DiscountAmount int64         `json:"discount_amount"`
	Total          int64         `json:"total"`
	Promo          *AppliedPromo `json:"promo,omitempty"`
	Items          []QuotedItem  `json:"items"`
}

type PaymentMethod struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

type OrderItem struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Color           string  `json:"color,omitempty"`
	Quantity        int     `json:"quantity"`
	Price           int64   `json:"price"`
	OriginalPrice   int64   `json:"original_price"`
	DiscountPercent float64 `json:"discount_percent"`
}

type Order struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"customer_name"`
	PhoneNumber     string      `json:"phone_number"`
	Address         string      `json:"address"`
	Notes           string      `json:"notes,omitempty"`
	PaymentMethodID string      `json:"payment_method_id"`
	IdempotencyKey  string      `json:"idempotency_key,omitempty"`
	Items           []OrderItem `json:"items"`
	TotalPrice      int64       `json:"total_price"`
	PromoCode       string      `json:"promo_code,omitempty"`
	DiscountAmount  int64       `json:"discount_amount"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"payment_status"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderSubmitRequest struct {
	CustomerName    string         `json:"customer_name"`
	PhoneNumber     string         `json:"phone_number"`
	Address         string         `json:"address"`
	Notes           string         `json:"notes"`
	PaymentMethodID string         `json:"payment_method_id"`
	PromoCode       string         `json:"promo_code"`
	IdempotencyKey  string         `json:"idempotency_key"`
	Items           []CartLineItem `json:"items"`
}

type OrderSubmitResponse struct {
	Order            Order `json:"order"`
	Duplicate        bool  `json:"duplicate"`
	NotificationSent bool  `json:"notification_sent"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StaffUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	OrderStatusPending   = "pending"
	PaymentStatusPending = "pending"
)
