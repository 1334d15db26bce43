package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"tokohape/backend/internal/domain"
	"tokohape/backend/internal/store"
	"tokohape/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, brand_id, name, color, image_url, price, active, created_at
		FROM products
		WHERE active = true
		ORDER BY brand_id, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.BrandID, &p.Name, &p.Color, &p.ImageURL, &p.PriceUnit, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.BrandID == "" || product.PriceUnit < 1 {
		return nil, store.ErrInvalidRecord
	}

	product.Active = true
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, brand_id, name, color, image_url, price, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
	`, product.ID, product.BrandID, product.Name, product.Color, product.ImageURL, product.PriceUnit, product.Active, product.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, brand_id, name, color, image_url, price, active, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.BrandID, &product.Name, &product.Color, &product.ImageURL, &product.PriceUnit, &product.Active, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	product.CreatedAt = product.CreatedAt.UTC()
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.PriceUnit < 1 {
		return nil, store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, color = $3, image_url = $4, price = $5, active = $6, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.Color, product.ImageURL, product.PriceUnit, product.Active)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) ListPackages(ctx context.Context) ([]domain.Package, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, image_url, price, active, created_at
		FROM packages
		WHERE active = true
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]domain.Package, 0, 16)
	for rows.Next() {
		var p domain.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL, &p.PriceUnit, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return packages, nil
}

func (s *Store) CreatePackage(ctx context.Context, pkg domain.Package) (*domain.Package, error) {
	if pkg.ID == "" || pkg.Name == "" || pkg.PriceUnit < 1 {
		return nil, store.ErrInvalidRecord
	}

	pkg.Active = true
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO packages (id, name, image_url, price, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,now())
	`, pkg.ID, pkg.Name, pkg.ImageURL, pkg.PriceUnit, pkg.Active, pkg.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := pkg
	return &created, nil
}

func (s *Store) GetPackageByID(ctx context.Context, id string) (*domain.Package, error) {
	var pkg domain.Package
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, image_url, price, active, created_at
		FROM packages
		WHERE id = $1
	`, id).Scan(&pkg.ID, &pkg.Name, &pkg.ImageURL, &pkg.PriceUnit, &pkg.Active, &pkg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	pkg.CreatedAt = pkg.CreatedAt.UTC()
	return &pkg, nil
}

func (s *Store) FindActivePromoCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, active, created_at
		FROM promo_codes
		WHERE code = $1 AND active = true
	`, code).Scan(&promo.ID, &promo.Code, &promo.Active, &promo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	promo.CreatedAt = promo.CreatedAt.UTC()
	return &promo, nil
}

func (s *Store) GetPromoCodeByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, active, created_at
		FROM promo_codes
		WHERE id = $1
	`, id).Scan(&promo.ID, &promo.Code, &promo.Active, &promo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	promo.CreatedAt = promo.CreatedAt.UTC()
	return &promo, nil
}

func (s *Store) CreatePromoCode(ctx context.Context, promo domain.PromoCode) (*domain.PromoCode, error) {
	if promo.ID == "" || promo.Code == "" {
		return nil, store.ErrInvalidRecord
	}
	if promo.CreatedAt.IsZero() {
		promo.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO promo_codes (id, code, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,now())
	`, promo.ID, promo.Code, promo.Active, promo.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := promo
	return &created, nil
}

func (s *Store) ListPromoCodes(ctx context.Context) ([]domain.PromoCode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, active, created_at
		FROM promo_codes
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promos := make([]domain.PromoCode, 0, 16)
	for rows.Next() {
		var promo domain.PromoCode
		if err := rows.Scan(&promo.ID, &promo.Code, &promo.Active, &promo.CreatedAt); err != nil {
			return nil, err
		}
		promo.CreatedAt = promo.CreatedAt.UTC()
		promos = append(promos, promo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return promos, nil
}

func (s *Store) SetPromoCodeActive(ctx context.Context, id string, active bool) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	err := s.db.QueryRowContext(ctx, `
		UPDATE promo_codes
		SET active = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, code, active, created_at
	`, id, active).Scan(&promo.ID, &promo.Code, &promo.Active, &promo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	promo.CreatedAt = promo.CreatedAt.UTC()
	return &promo, nil
}

func (s *Store) ListBrandDiscounts(ctx context.Context, promoCodeID string) ([]domain.BrandDiscount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, promo_code_id, brand_id, discount_percentage
		FROM brand_discounts
		WHERE promo_code_id = $1
		ORDER BY brand_id ASC
	`, promoCodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	discounts := make([]domain.BrandDiscount, 0, 8)
	for rows.Next() {
		var row domain.BrandDiscount
		if err := rows.Scan(&row.ID, &row.PromoCodeID, &row.BrandID, &row.DiscountPercent); err != nil {
			return nil, err
		}
		discounts = append(discounts, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return discounts, nil
}

func (s *Store) ListPackageDiscounts(ctx context.Context, promoCodeID string) ([]domain.PackageDiscount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, promo_code_id, package_id, discount_percentage
		FROM package_discounts
		WHERE promo_code_id = $1
		ORDER BY package_id ASC
	`, promoCodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	discounts := make([]domain.PackageDiscount, 0, 8)
	for rows.Next() {
		var row domain.PackageDiscount
		if err := rows.Scan(&row.ID, &row.PromoCodeID, &row.PackageID, &row.DiscountPercent); err != nil {
			return nil, err
		}
		discounts = append(discounts, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return discounts, nil
}

func (s *Store) CreateBrandDiscount(ctx context.Context, row domain.BrandDiscount) (*domain.BrandDiscount, error) {
	if row.PromoCodeID == "" || row.BrandID == "" || row.DiscountPercent < 0 || row.DiscountPercent > 100 {
		return nil, store.ErrInvalidRecord
	}
	if row.ID == "" {
		row.ID = xid.New("bd")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO brand_discounts (id, promo_code_id, brand_id, discount_percentage)
		VALUES ($1,$2,$3,$4)
	`, row.ID, row.PromoCodeID, row.BrandID, row.DiscountPercent)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := row
	return &created, nil
}

func (s *Store) CreatePackageDiscount(ctx context.Context, row domain.PackageDiscount) (*domain.PackageDiscount, error) {
	if row.PromoCodeID == "" || row.PackageID == "" || row.DiscountPercent < 0 || row.DiscountPercent > 100 {
		return nil, store.ErrInvalidRecord
	}
	if row.ID == "" {
		row.ID = xid.New("pd")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO package_discounts (id, promo_code_id, package_id, discount_percentage)
		VALUES ($1,$2,$3,$4)
	`, row.ID, row.PromoCodeID, row.PackageID, row.DiscountPercent)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := row
	return &created, nil
}

func (s *Store) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, active
		FROM payment_methods
		WHERE active = true
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := make([]domain.PaymentMethod, 0, 8)
	for rows.Next() {
		var pm domain.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.Name, &pm.Type, &pm.Active); err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return methods, nil
}

func (s *Store) GetPaymentMethod(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	var pm domain.PaymentMethod
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, active
		FROM payment_methods
		WHERE id = $1
	`, id).Scan(&pm.ID, &pm.Name, &pm.Type, &pm.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &pm, nil
}

func (s *Store) InsertOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if order.ID == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidRecord
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_name, phone_number, address, notes, payment_method_id,
			idempotency_key, total_price, promo_code, discount_amount,
			status, payment_status, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, order.ID, order.CustomerName, order.PhoneNumber, order.Address, order.Notes,
		order.PaymentMethodID, nullIfEmpty(order.IdempotencyKey), order.TotalPrice,
		nullIfEmpty(order.PromoCode), order.DiscountAmount, order.Status, order.PaymentStatus,
		order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) && order.IdempotencyKey != "" {
			existing, lookupErr := s.FindOrderByIdempotency(ctx, order.IdempotencyKey)
			if lookupErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, color, quantity, price, original_price, discount_percent)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, order.ID, item.ProductID, item.Name, item.Color, item.Quantity, item.Price, item.OriginalPrice, item.DiscountPercent)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := order
	return &created, nil
}

func (s *Store) FindOrderByIdempotency(ctx context.Context, key string) (*domain.Order, error) {
	return s.findOrder(ctx, "idempotency_key", key)
}

func (s *Store) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.findOrder(ctx, "id", id)
}

func (s *Store) findOrder(ctx context.Context, column string, value string) (*domain.Order, error) {
	if column != "id" && column != "idempotency_key" {
		return nil, fmt.Errorf("unsupported lookup column")
	}

	var order domain.Order
	var idemKey sql.NullString
	var promoCode sql.NullString

	query := fmt.Sprintf(`
		SELECT id, customer_name, phone_number, address, notes, payment_method_id,
			idempotency_key, total_price, promo_code, discount_amount,
			status, payment_status, created_at
		FROM orders
		WHERE %s = $1
	`, column)

	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&order.ID,
		&order.CustomerName,
		&order.PhoneNumber,
		&order.Address,
		&order.Notes,
		&order.PaymentMethodID,
		&idemKey,
		&order.TotalPrice,
		&promoCode,
		&order.DiscountAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if idemKey.Valid {
		order.IdempotencyKey = idemKey.String
	}
	if promoCode.Valid {
		order.PromoCode = promoCode.String
	}
	order.CreatedAt = order.CreatedAt.UTC()

	items, err := s.orderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (s *Store) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, color, quantity, price, original_price, discount_percent
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0, 8)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Color, &item.Quantity, &item.Price, &item.OriginalPrice, &item.DiscountPercent); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_name, phone_number, address, notes, payment_method_id,
			idempotency_key, total_price, promo_code, discount_amount,
			status, payment_status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		var order domain.Order
		var idemKey sql.NullString
		var promoCode sql.NullString
		if err := rows.Scan(
			&order.ID,
			&order.CustomerName,
			&order.PhoneNumber,
			&order.Address,
			&order.Notes,
			&order.PaymentMethodID,
			&idemKey,
			&order.TotalPrice,
			&promoCode,
			&order.DiscountAmount,
			&order.Status,
			&order.PaymentStatus,
			&order.CreatedAt,
		); err != nil {
			return nil, err
		}
		if idemKey.Valid {
			order.IdempotencyKey = idemKey.String
		}
		if promoCode.Valid {
			order.PromoCode = promoCode.String
		}
		order.CreatedAt = order.CreatedAt.UTC()
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (
			id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidRecord
	}
	if user.Role == "" {
		user.Role = "staff"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidRecord
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}
