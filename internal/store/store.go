package store

import (
	"context"
	"errors"

	"tokohape/backend/internal/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRecord = errors.New("invalid record")
)

// Repository is the storefront's data-service boundary. Everything the
// pricing and checkout engine needs from persistence goes through here so
// the engine can run against the in-memory fake in tests.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)

	ListPackages(ctx context.Context) ([]domain.Package, error)
	CreatePackage(ctx context.Context, pkg domain.Package) (*domain.Package, error)
	GetPackageByID(ctx context.Context, id string) (*domain.Package, error)

	FindActivePromoCode(ctx context.Context, code string) (*domain.PromoCode, error)
	GetPromoCodeByID(ctx context.Context, id string) (*domain.PromoCode, error)
	CreatePromoCode(ctx context.Context, promo domain.PromoCode) (*domain.PromoCode, error)
	ListPromoCodes(ctx context.Context) ([]domain.PromoCode, error)
	SetPromoCodeActive(ctx context.Context, id string, active bool) (*domain.PromoCode, error)
	ListBrandDiscounts(ctx context.Context, promoCodeID string) ([]domain.BrandDiscount, error)
	ListPackageDiscounts(ctx context.Context, promoCodeID string) ([]domain.PackageDiscount, error)
	CreateBrandDiscount(ctx context.Context, row domain.BrandDiscount) (*domain.BrandDiscount, error)
	CreatePackageDiscount(ctx context.Context, row domain.PackageDiscount) (*domain.PackageDiscount, error)

	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id string) (*domain.PaymentMethod, error)

	InsertOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	FindOrderByIdempotency(ctx context.Context, key string) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, limit int) ([]domain.Order, error)

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
