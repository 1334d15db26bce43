package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tokohape/backend/internal/domain"
	"tokohape/backend/internal/store"
	"tokohape/backend/internal/xid"
)

type Store struct {
	mu               sync.RWMutex
	products         map[string]domain.Product
	packages         map[string]domain.Package
	promosByID       map[string]domain.PromoCode
	brandDiscounts   map[string][]domain.BrandDiscount
	packageDiscounts map[string][]domain.PackageDiscount
	paymentMethods   map[string]domain.PaymentMethod
	ordersByID       map[string]*domain.Order
	ordersByIdem     map[string]*domain.Order
	orderSequence    []string
	auditLogs        []domain.AuditLog
	usersByUsername  map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD; if unset,
// hardcoded dev defaults are used with a warning. Never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"staff", staffPwd, "staff"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()

	products := []domain.Product{
		{ID: "hp-iphone-15", BrandID: "apple", Name: "iPhone 15 128GB", Color: "Black", PriceUnit: 13499000, Active: true, CreatedAt: now},
		{ID: "hp-iphone-13", BrandID: "apple", Name: "iPhone 13 128GB", Color: "Midnight", PriceUnit: 8999000, Active: true, CreatedAt: now},
		{ID: "hp-galaxy-s24", BrandID: "samsung", Name: "Galaxy S24 256GB", Color: "Gray", PriceUnit: 12999000, Active: true, CreatedAt: now},
		{ID: "hp-galaxy-a55", BrandID: "samsung", Name: "Galaxy A55 128GB", Color: "Navy", PriceUnit: 5499000, Active: true, CreatedAt: now},
		{ID: "hp-redmi-13", BrandID: "xiaomi", Name: "Redmi Note 13 256GB", Color: "Blue", PriceUnit: 2899000, Active: true, CreatedAt: now},
		{ID: "acc-case-iphone", BrandID: "spigen", Name: "Spigen Tough Armor iPhone 15", Color: "Black", PriceUnit: 399000, Active: true, CreatedAt: now},
		{ID: "acc-charger-20w", BrandID: "anker", Name: "Anker Nano 20W Charger", PriceUnit: 259000, Active: true, CreatedAt: now},
	}

	packages := []domain.Package{
		{ID: "pkg-iphone-starter", Name: "Paket iPhone 15 + Case + Charger", PriceUnit: 13899000, Active: true, CreatedAt: now},
		{ID: "pkg-galaxy-duo", Name: "Paket Galaxy A55 + Redmi Note 13", PriceUnit: 8199000, Active: true, CreatedAt: now},
	}

	promo := domain.PromoCode{ID: "promo-save20", Code: "SAVE20", Active: true, CreatedAt: now}
	brandRows := map[string][]domain.BrandDiscount{
		promo.ID: {
			{ID: "bd-apple", PromoCodeID: promo.ID, BrandID: "apple", DiscountPercent: 20},
			{ID: "bd-samsung", PromoCodeID: promo.ID, BrandID: "samsung", DiscountPercent: 10},
		},
	}
	packageRows := map[string][]domain.PackageDiscount{
		promo.ID: {
			{ID: "pd-starter", PromoCodeID: promo.ID, PackageID: "pkg-iphone-starter", DiscountPercent: 10},
		},
	}

	paymentMethods := []domain.PaymentMethod{
		{ID: "pm-transfer", Name: "Transfer Bank", Type: "bank_transfer", Active: true},
		{ID: "pm-qris", Name: "QRIS", Type: "qris", Active: true},
		{ID: "pm-cod", Name: "Bayar di Tempat", Type: "cod", Active: true},
	}

	productMap := make(map[string]domain.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}
	packageMap := make(map[string]domain.Package, len(packages))
	for _, p := range packages {
		packageMap[p.ID] = p
	}
	paymentMap := make(map[string]domain.PaymentMethod, len(paymentMethods))
	for _, pm := range paymentMethods {
		paymentMap[pm.ID] = pm
	}

	return &Store{
		products:         productMap,
		packages:         packageMap,
		promosByID:       map[string]domain.PromoCode{promo.ID: promo},
		brandDiscounts:   brandRows,
		packageDiscounts: packageRows,
		paymentMethods:   paymentMap,
		ordersByID:       make(map[string]*domain.Order),
		ordersByIdem:     make(map[string]*domain.Order),
		orderSequence:    make([]string, 0, 32),
		auditLogs:        make([]domain.AuditLog, 0, 128),
		usersByUsername:  seedUsers(),
	}
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.Active {
			continue
		}
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.BrandID == b.BrandID {
			return strings.Compare(a.Name, b.Name)
		}
		return strings.Compare(a.BrandID, b.BrandID)
	})

	return products, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" || product.PriceUnit < 1 {
		return nil, store.ErrInvalidRecord
	}
	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrInvalidRecord
	}

	product.Active = true
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	s.products[product.ID] = product
	created := product
	return &created, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := product
	return &copied, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" || product.PriceUnit < 1 {
		return nil, store.ErrInvalidRecord
	}
	if _, exists := s.products[product.ID]; !exists {
		return nil, store.ErrNotFound
	}

	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) ListPackages(_ context.Context) ([]domain.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	packages := make([]domain.Package, 0, len(s.packages))
	for _, p := range s.packages {
		if !p.Active {
			continue
		}
		packages = append(packages, p)
	}
	slices.SortFunc(packages, func(a, b domain.Package) int {
		return strings.Compare(a.Name, b.Name)
	})
	return packages, nil
}

func (s *Store) CreatePackage(_ context.Context, pkg domain.Package) (*domain.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pkg.ID == "" || pkg.Name == "" || pkg.PriceUnit < 1 {
		return nil, store.ErrInvalidRecord
	}
	if _, exists := s.packages[pkg.ID]; exists {
		return nil, store.ErrInvalidRecord
	}

	pkg.Active = true
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = time.Now().UTC()
	}
	s.packages[pkg.ID] = pkg
	created := pkg
	return &created, nil
}

func (s *Store) GetPackageByID(_ context.Context, id string) (*domain.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, exists := s.packages[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := pkg
	return &copied, nil
}

func (s *Store) FindActivePromoCode(_ context.Context, code string) (*domain.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, promo := range s.promosByID {
		if promo.Code == code && promo.Active {
			copied := promo
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetPromoCodeByID(_ context.Context, id string) (*domain.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	promo, exists := s.promosByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := promo
	return &copied, nil
}

func (s *Store) CreatePromoCode(_ context.Context, promo domain.PromoCode) (*domain.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if promo.ID == "" || promo.Code == "" {
		return nil, store.ErrInvalidRecord
	}
	for _, existing := range s.promosByID {
		if existing.Code == promo.Code {
			return nil, store.ErrInvalidRecord
		}
	}
	if promo.CreatedAt.IsZero() {
		promo.CreatedAt = time.Now().UTC()
	}
	s.promosByID[promo.ID] = promo
	created := promo
	return &created, nil
}

func (s *Store) ListPromoCodes(_ context.Context) ([]domain.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	promos := make([]domain.PromoCode, 0, len(s.promosByID))
	for _, promo := range s.promosByID {
		promos = append(promos, promo)
	}
	slices.SortFunc(promos, func(a, b domain.PromoCode) int {
		return strings.Compare(a.Code, b.Code)
	})
	return promos, nil
}

func (s *Store) SetPromoCodeActive(_ context.Context, id string, active bool) (*domain.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo, exists := s.promosByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	promo.Active = active
	s.promosByID[id] = promo
	updated := promo
	return &updated, nil
}

func (s *Store) ListBrandDiscounts(_ context.Context, promoCodeID string) ([]domain.BrandDiscount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.brandDiscounts[promoCodeID]
	result := make([]domain.BrandDiscount, len(rows))
	copy(result, rows)
	return result, nil
}

func (s *Store) ListPackageDiscounts(_ context.Context, promoCodeID string) ([]domain.PackageDiscount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.packageDiscounts[promoCodeID]
	result := make([]domain.PackageDiscount, len(rows))
	copy(result, rows)
	return result, nil
}

func (s *Store) CreateBrandDiscount(_ context.Context, row domain.BrandDiscount) (*domain.BrandDiscount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row.PromoCodeID == "" || row.BrandID == "" || row.DiscountPercent < 0 || row.DiscountPercent > 100 {
		return nil, store.ErrInvalidRecord
	}
	if _, exists := s.promosByID[row.PromoCodeID]; !exists {
		return nil, store.ErrNotFound
	}
	if row.ID == "" {
		row.ID = xid.New("bd")
	}
	s.brandDiscounts[row.PromoCodeID] = append(s.brandDiscounts[row.PromoCodeID], row)
	created := row
	return &created, nil
}

func (s *Store) CreatePackageDiscount(_ context.Context, row domain.PackageDiscount) (*domain.PackageDiscount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row.PromoCodeID == "" || row.PackageID == "" || row.DiscountPercent < 0 || row.DiscountPercent > 100 {
		return nil, store.ErrInvalidRecord
	}
	if _, exists := s.promosByID[row.PromoCodeID]; !exists {
		return nil, store.ErrNotFound
	}
	if row.ID == "" {
		row.ID = xid.New("pd")
	}
	s.packageDiscounts[row.PromoCodeID] = append(s.packageDiscounts[row.PromoCodeID], row)
	created := row
	return &created, nil
}

func (s *Store) ListPaymentMethods(_ context.Context) ([]domain.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	methods := make([]domain.PaymentMethod, 0, len(s.paymentMethods))
	for _, pm := range s.paymentMethods {
		if !pm.Active {
			continue
		}
		methods = append(methods, pm)
	}
	slices.SortFunc(methods, func(a, b domain.PaymentMethod) int {
		return strings.Compare(a.Name, b.Name)
	})
	return methods, nil
}

func (s *Store) GetPaymentMethod(_ context.Context, id string) (*domain.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pm, exists := s.paymentMethods[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := pm
	return &copied, nil
}

func (s *Store) InsertOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidRecord
	}
	if _, exists := s.ordersByID[order.ID]; exists {
		return nil, store.ErrInvalidRecord
	}
	if order.IdempotencyKey != "" {
		if _, exists := s.ordersByIdem[order.IdempotencyKey]; exists {
			return nil, store.ErrInvalidRecord
		}
	}

	copied := order
	copied.Items = make([]domain.OrderItem, len(order.Items))
	copy(copied.Items, order.Items)

	s.ordersByID[copied.ID] = &copied
	if copied.IdempotencyKey != "" {
		s.ordersByIdem[copied.IdempotencyKey] = &copied
	}
	s.orderSequence = append(s.orderSequence, copied.ID)

	result := copied
	return &result, nil
}

func (s *Store) FindOrderByIdempotency(_ context.Context, key string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.ordersByIdem[key]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *Store) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.ordersByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *Store) ListOrders(_ context.Context, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 {
		limit = 50
	}

	orders := make([]domain.Order, 0, limit)
	for i := len(s.orderSequence) - 1; i >= 0 && len(orders) < limit; i-- {
		if order, exists := s.ordersByID[s.orderSequence[i]]; exists {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 {
		limit = 100
	}

	logs := make([]domain.AuditLog, 0, limit)
	for i := len(s.auditLogs) - 1; i >= 0 && len(logs) < limit; i-- {
		logs = append(logs, s.auditLogs[i])
	}
	return logs, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Username == "" {
		return store.ErrInvalidRecord
	}
	if _, exists := s.usersByUsername[user.Username]; exists {
		return store.ErrInvalidRecord
	}
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}
