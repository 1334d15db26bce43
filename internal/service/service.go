package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"tokohape/backend/internal/cache"
	"tokohape/backend/internal/domain"
	"tokohape/backend/internal/notify"
	"tokohape/backend/internal/pricing"
	"tokohape/backend/internal/store"
	"tokohape/backend/internal/xid"
)

var (
	// ErrInvalidCode means the promo code does not exist or is inactive.
	ErrInvalidCode = errors.New("promo code not found or inactive")
	// ErrPromoNotApplicable means the code exists but matches nothing in the cart.
	ErrPromoNotApplicable = errors.New("promo code does not apply to any cart item")
	// ErrIncompleteForm means required checkout fields are missing.
	ErrIncompleteForm = errors.New("required checkout fields are missing")
	// ErrInvalidProduct means a cart item references no known package or product.
	ErrInvalidProduct = errors.New("cart item references an unknown product")
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo     store.Repository
	rates    cache.PromoRatesCache
	notifier notify.Notifier
	ratesTTL time.Duration
	quotes   *quoteTracker
}

func New(repo store.Repository, rates cache.PromoRatesCache, notifier notify.Notifier, ratesTTL time.Duration) *Service {
	if rates == nil {
		rates = cache.NoopPromoRatesCache{}
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if ratesTTL <= 0 {
		ratesTTL = 30 * time.Second
	}

	return &Service{
		repo:     repo,
		rates:    rates,
		notifier: notifier,
		ratesTTL: ratesTTL,
		quotes:   newQuoteTracker(),
	}
}

// quoteTracker enforces newest-wins semantics for concurrent quote
// recomputations of the same cart: a quote is published only if no
// newer-generation quote has been published already.
type quoteTracker struct {
	mu      sync.Mutex
	seq     map[string]uint64
	applied map[string]uint64
	latest  map[string]domain.CartQuote
}

func newQuoteTracker() *quoteTracker {
	return &quoteTracker{
		seq:     make(map[string]uint64),
		applied: make(map[string]uint64),
		latest:  make(map[string]domain.CartQuote),
	}
}

func (t *quoteTracker) begin(cartID string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq[cartID]++
	return t.seq[cartID]
}

func (t *quoteTracker) publish(cartID string, gen uint64, quote domain.CartQuote) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen <= t.applied[cartID] {
		return false
	}
	t.applied[cartID] = gen
	t.latest[cartID] = quote
	return true
}

func (t *quoteTracker) latestQuote(cartID string) (domain.CartQuote, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	quote, ok := t.latest[cartID]
	return quote, ok
}

// ValidatePromo checks a promo code against the current cart contents and,
// when eligible, returns the cart-level badge with the maximum matching
// percentage. The brand path is tried before the package path.
func (s *Service) ValidatePromo(ctx context.Context, req domain.PromoValidateRequest) (domain.AppliedPromo, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return domain.AppliedPromo{}, ErrInvalidCode
	}

	promo, err := s.repo.FindActivePromoCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AppliedPromo{}, ErrInvalidCode
		}
		return domain.AppliedPromo{}, err
	}

	rates, err := s.resolvePromoRates(ctx, *promo)
	if err != nil {
		return domain.AppliedPromo{}, err
	}

	items := normalizeItems(req.Items)
	percent, ok := pricing.EligiblePercent(items, rates)
	if !ok {
		return domain.AppliedPromo{}, ErrPromoNotApplicable
	}

	return domain.AppliedPromo{Code: promo.Code, DiscountPercent: percent}, nil
}

// QuoteCart computes the cart's subtotal, discount and total. Discount rows
// are re-resolved on every call so the quote always reflects the live cart.
// Quotes for the same cart id are published newest-wins; the caller always
// receives its own computation, but LatestQuote never regresses to a stale
// in-flight result.
func (s *Service) QuoteCart(ctx context.Context, req domain.CartQuoteRequest) (domain.CartQuote, error) {
	cartID := strings.TrimSpace(req.CartID)
	if cartID == "" {
		cartID = "default"
	}
	gen := s.quotes.begin(cartID)

	items := normalizeItems(req.Items)
	rates := domain.PromoRates{}
	code := strings.ToUpper(strings.TrimSpace(req.PromoCode))
	if code != "" && len(items) > 0 {
		promo, err := s.repo.FindActivePromoCode(ctx, code)
		if err == nil {
			rates, err = s.resolvePromoRates(ctx, *promo)
			if err != nil {
				return domain.CartQuote{}, err
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return domain.CartQuote{}, err
		}
		// A code that no longer resolves degrades silently to zero discount.
	}

	totals := pricing.Compute(items, rates)
	quote := domain.CartQuote{
		CartID:         cartID,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		Items:          make([]domain.QuotedItem, 0, len(totals.Lines)),
	}
	for _, line := range totals.Lines {
		quote.Items = append(quote.Items, domain.QuotedItem{
			ProductID:       line.ProductID,
			Name:            line.Name,
			Quantity:        line.Quantity,
			OriginalPrice:   line.OriginalPrice,
			Price:           line.Price,
			DiscountPercent: line.DiscountPercent,
		})
	}

	// The badge auto-invalidates: it is present only while at least one
	// line item still matches the promo.
	if rates.Code != "" {
		if percent, ok := pricing.EligiblePercent(items, rates); ok {
			quote.Promo = &domain.AppliedPromo{Code: rates.Code, DiscountPercent: percent}
		}
	}

	s.quotes.publish(cartID, gen, quote)
	return quote, nil
}

// LatestQuote returns the most recently published quote for a cart.
func (s *Service) LatestQuote(cartID string) (domain.CartQuote, bool) {
	if strings.TrimSpace(cartID) == "" {
		cartID = "default"
	}
	return s.quotes.latestQuote(cartID)
}

// SubmitOrder runs the checkout: field preconditions, per-item catalog
// existence, a fresh discount snapshot, a single order insert, then a
// best-effort notification that never fails the checkout.
func (s *Service) SubmitOrder(ctx context.Context, req domain.OrderSubmitRequest) (domain.OrderSubmitResponse, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Address = strings.TrimSpace(req.Address)
	req.PaymentMethodID = strings.TrimSpace(req.PaymentMethodID)

	if req.CustomerName == "" || req.PhoneNumber == "" || req.Address == "" || req.PaymentMethodID == "" {
		return domain.OrderSubmitResponse{}, ErrIncompleteForm
	}
	items := normalizeItems(req.Items)
	if len(items) == 0 {
		return domain.OrderSubmitResponse{}, ErrIncompleteForm
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = xid.New("idem")
	}
	if existing, err := s.repo.FindOrderByIdempotency(ctx, req.IdempotencyKey); err == nil {
		return domain.OrderSubmitResponse{Order: *existing, Duplicate: true, NotificationSent: false}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.OrderSubmitResponse{}, err
	}

	// Every line must still reference a real catalog entry: packages are
	// checked before products. Any miss aborts the whole order.
	for _, item := range items {
		if err := s.catalogEntryExists(ctx, item.ProductID); err != nil {
			return domain.OrderSubmitResponse{}, err
		}
	}

	payment := s.resolvePaymentMethod(ctx, req.PaymentMethodID)

	rates := domain.PromoRates{}
	promoCode := ""
	code := strings.ToUpper(strings.TrimSpace(req.PromoCode))
	if code != "" {
		promo, err := s.repo.FindActivePromoCode(ctx, code)
		if err == nil {
			rates, err = s.resolvePromoRates(ctx, *promo)
			if err != nil {
				return domain.OrderSubmitResponse{}, err
			}
			promoCode = promo.Code
		} else if !errors.Is(err, store.ErrNotFound) {
			return domain.OrderSubmitResponse{}, err
		}
	}

	totals := pricing.Compute(items, rates)
	orderItems := make([]domain.OrderItem, 0, len(totals.Lines))
	for _, line := range totals.Lines {
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:       line.ProductID,
			Name:            line.Name,
			Color:           line.Color,
			Quantity:        line.Quantity,
			Price:           line.Price,
			OriginalPrice:   line.OriginalPrice,
			DiscountPercent: line.DiscountPercent,
		})
	}
	if totals.DiscountAmount == 0 {
		promoCode = ""
	}

	order := domain.Order{
		ID:              xid.New("order"),
		CustomerName:    req.CustomerName,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
		Notes:           strings.TrimSpace(req.Notes),
		PaymentMethodID: req.PaymentMethodID,
		IdempotencyKey:  req.IdempotencyKey,
		Items:           orderItems,
		TotalPrice:      totals.Total,
		PromoCode:       promoCode,
		DiscountAmount:  totals.DiscountAmount,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.repo.InsertOrder(ctx, order)
	if err != nil {
		return domain.OrderSubmitResponse{}, err
	}

	notificationSent := true
	if err := s.notifier.OrderCreated(ctx, *created, payment); err != nil {
		log.Printf("[service] WARN: order notification failed order=%s: %v", created.ID, err)
		notificationSent = false
	}

	s.logAudit(ctx, "checkout", "order", created.ID, fmt.Sprintf("total=%d,promo=%s,discount=%d,items=%d", created.TotalPrice, created.PromoCode, created.DiscountAmount, len(created.Items)))

	return domain.OrderSubmitResponse{Order: *created, Duplicate: false, NotificationSent: notificationSent}, nil
}

func (s *Service) catalogEntryExists(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if _, err := s.repo.GetPackageByID(ctx, productID); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if _, err := s.repo.GetProductByID(ctx, productID); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s", ErrInvalidProduct, productID)
}

// resolvePaymentMethod never blocks checkout: an unresolvable method falls
// back to a default label used only for the notification.
func (s *Service) resolvePaymentMethod(ctx context.Context, id string) domain.PaymentMethod {
	pm, err := s.repo.GetPaymentMethod(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[service] WARN: payment method lookup failed id=%s: %v", id, err)
		}
		return domain.PaymentMethod{ID: id, Name: "Transfer", Type: "bank_transfer"}
	}
	return *pm
}

// resolvePromoRates collapses a promo's discount rows into one immutable
// value per user action, consulting the cache first.
func (s *Service) resolvePromoRates(ctx context.Context, promo domain.PromoCode) (domain.PromoRates, error) {
	if cached, ok, err := s.rates.Get(ctx, promo.ID); err == nil && ok {
		return *cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: promo rates cache read failed promo=%s: %v", promo.ID, err)
	}

	brandRows, err := s.repo.ListBrandDiscounts(ctx, promo.ID)
	if err != nil {
		return domain.PromoRates{}, err
	}
	packageRows, err := s.repo.ListPackageDiscounts(ctx, promo.ID)
	if err != nil {
		return domain.PromoRates{}, err
	}

	rates := domain.PromoRates{
		PromoCodeID: promo.ID,
		Code:        promo.Code,
		Brand:       make(map[string]float64, len(brandRows)),
		Package:     make(map[string]float64, len(packageRows)),
	}
	for _, row := range brandRows {
		if existing, ok := rates.Brand[row.BrandID]; !ok || row.DiscountPercent > existing {
			rates.Brand[row.BrandID] = row.DiscountPercent
		}
	}
	for _, row := range packageRows {
		if existing, ok := rates.Package[row.PackageID]; !ok || row.DiscountPercent > existing {
			rates.Package[row.PackageID] = row.DiscountPercent
		}
	}

	if err := s.rates.Set(ctx, promo.ID, &rates, s.ratesTTL); err != nil {
		log.Printf("[service] WARN: promo rates cache write failed promo=%s: %v", promo.ID, err)
	}
	return rates, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) ListPackages(ctx context.Context) ([]domain.Package, error) {
	return s.repo.ListPackages(ctx)
}

func (s *Service) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	req.ID = strings.TrimSpace(req.ID)
	req.BrandID = strings.ToLower(strings.TrimSpace(req.BrandID))
	req.Name = strings.TrimSpace(req.Name)
	if req.ID == "" {
		req.ID = xid.New("hp")
	}
	if req.Name == "" || req.BrandID == "" || req.Price < 1 {
		return domain.Product{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		ID:        req.ID,
		BrandID:   req.BrandID,
		Name:      req.Name,
		Color:     strings.TrimSpace(req.Color),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		PriceUnit: req.Price,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("brand=%s,price=%d", created.BrandID, created.PriceUnit))
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, store.ErrInvalidRecord
	}

	existing, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidRecord
		}
		updated.Name = name
	}
	if req.Color != nil {
		updated.Color = strings.TrimSpace(*req.Color)
	}
	if req.ImageURL != nil {
		updated.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Price != nil {
		if *req.Price < 1 {
			return domain.Product{}, store.ErrInvalidRecord
		}
		updated.PriceUnit = *req.Price
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_update", "product", saved.ID, fmt.Sprintf("active=%t,price=%d", saved.Active, saved.PriceUnit))
	return *saved, nil
}

func (s *Service) CreatePackage(ctx context.Context, req domain.PackageCreateRequest) (domain.Package, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Package{}, fmt.Errorf("admin role required")
	}

	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if req.ID == "" {
		req.ID = xid.New("pkg")
	}
	if req.Name == "" || req.Price < 1 {
		return domain.Package{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreatePackage(ctx, domain.Package{
		ID:        req.ID,
		Name:      req.Name,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		PriceUnit: req.Price,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Package{}, err
	}

	s.logAudit(ctx, "package_create", "package", created.ID, fmt.Sprintf("price=%d", created.PriceUnit))
	return *created, nil
}

func (s *Service) CreatePromo(ctx context.Context, req domain.PromoCreateRequest) (domain.PromoCode, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.PromoCode{}, fmt.Errorf("admin role required")
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return domain.PromoCode{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreatePromoCode(ctx, domain.PromoCode{
		ID:        xid.New("promo"),
		Code:      code,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.PromoCode{}, err
	}

	s.logAudit(ctx, "promo_create", "promo", created.ID, code)
	return *created, nil
}

func (s *Service) SetPromoActive(ctx context.Context, promoID string, active bool) (domain.PromoCode, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.PromoCode{}, fmt.Errorf("admin role required")
	}

	updated, err := s.repo.SetPromoCodeActive(ctx, promoID, active)
	if err != nil {
		return domain.PromoCode{}, err
	}

	s.logAudit(ctx, "promo_toggle", "promo", promoID, fmt.Sprintf("active=%t", active))
	return *updated, nil
}

func (s *Service) AttachBrandDiscount(ctx context.Context, promoID string, req domain.BrandDiscountCreateRequest) (domain.BrandDiscount, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.BrandDiscount{}, fmt.Errorf("admin role required")
	}

	req.BrandID = strings.ToLower(strings.TrimSpace(req.BrandID))
	if req.BrandID == "" || req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return domain.BrandDiscount{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateBrandDiscount(ctx, domain.BrandDiscount{
		ID:              xid.New("bd"),
		PromoCodeID:     promoID,
		BrandID:         req.BrandID,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		return domain.BrandDiscount{}, err
	}

	s.logAudit(ctx, "brand_discount_create", "promo", promoID, fmt.Sprintf("brand=%s,percent=%.2f", created.BrandID, created.DiscountPercent))
	return *created, nil
}

func (s *Service) AttachPackageDiscount(ctx context.Context, promoID string, req domain.PackageDiscountCreateRequest) (domain.PackageDiscount, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.PackageDiscount{}, fmt.Errorf("admin role required")
	}

	req.PackageID = strings.TrimSpace(req.PackageID)
	if req.PackageID == "" || req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return domain.PackageDiscount{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreatePackageDiscount(ctx, domain.PackageDiscount{
		ID:              xid.New("pd"),
		PromoCodeID:     promoID,
		PackageID:       req.PackageID,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		return domain.PackageDiscount{}, err
	}

	s.logAudit(ctx, "package_discount_create", "promo", promoID, fmt.Sprintf("package=%s,percent=%.2f", created.PackageID, created.DiscountPercent))
	return *created, nil
}

func (s *Service) GetPromoDetail(ctx context.Context, promoID string) (domain.PromoCodeDetail, error) {
	promo, err := s.repo.GetPromoCodeByID(ctx, promoID)
	if err != nil {
		return domain.PromoCodeDetail{}, err
	}
	brandRows, err := s.repo.ListBrandDiscounts(ctx, promoID)
	if err != nil {
		return domain.PromoCodeDetail{}, err
	}
	packageRows, err := s.repo.ListPackageDiscounts(ctx, promoID)
	if err != nil {
		return domain.PromoCodeDetail{}, err
	}
	return domain.PromoCodeDetail{
		PromoCode:        *promo,
		BrandDiscounts:   brandRows,
		PackageDiscounts: packageRows,
	}, nil
}

func (s *Service) ListPromoCodes(ctx context.Context) ([]domain.PromoCode, error) {
	return s.repo.ListPromoCodes(ctx)
}

func (s *Service) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ListOrders(ctx, limit)
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}
	return s.repo.ListAuditLogs(ctx, limit)
}

// normalizeItems drops lines without a product id, defaults quantities to 1
// and clamps negative prices to zero. The cart client is loosely typed, so
// this is the single place upstream data gets coerced into shape.
func normalizeItems(items []domain.CartLineItem) []domain.CartLineItem {
	normalized := make([]domain.CartLineItem, 0, len(items))
	for _, item := range items {
		item.ProductID = strings.TrimSpace(item.ProductID)
		item.BrandID = strings.ToLower(strings.TrimSpace(item.BrandID))
		item.PackageID = strings.TrimSpace(item.PackageID)
		if item.ProductID == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if item.Price < 0 {
			item.Price = 0
		}
		normalized = append(normalized, item)
	}
	return normalized
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "storefront", Role: "public"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}
