package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"tokohape/backend/internal/domain"
	"tokohape/backend/internal/service"
	"tokohape/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	loginLimiter  *attemptLimiter
	csrfSecret    []byte
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string) *API {
	csrfSecret := make([]byte, 32)
	if _, err := rand.Read(csrfSecret); err != nil {
		// Fall back to a deterministic secret if crypto/rand fails (should not happen in practice).
		csrfSecret = []byte("csrf-fallback-secret-change-me!!")
	}
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
		csrfSecret:    csrfSecret,
	}
}

// csrfTokenForHour computes an HMAC-SHA256 token for the given hour bucket
// (expressed as Unix time truncated to the hour). The token is hex-encoded.
func (a *API) csrfTokenForHour(hourBucket int64) string {
	h := hmac.New(sha256.New, a.csrfSecret)
	fmt.Fprintf(h, "%d", hourBucket)
	return hex.EncodeToString(h.Sum(nil))
}

// generateCSRFToken returns a token valid for the current hour bucket.
func (a *API) generateCSRFToken() string {
	now := time.Now().UTC()
	bucket := now.Truncate(time.Hour).Unix()
	return a.csrfTokenForHour(bucket)
}

// validateCSRFToken checks whether the provided token matches the current or
// previous hour bucket, giving a 2-hour validity window.
func (a *API) validateCSRFToken(token string) bool {
	if token == "" {
		return false
	}
	now := time.Now().UTC()
	currentBucket := now.Truncate(time.Hour).Unix()
	prevBucket := currentBucket - 3600

	expected1 := a.csrfTokenForHour(currentBucket)
	expected2 := a.csrfTokenForHour(prevBucket)

	return hmac.Equal([]byte(token), []byte(expected1)) ||
		hmac.Equal([]byte(token), []byte(expected2))
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/v1/auth/login", a.handleLogin)
	mux.HandleFunc("/api/v1/auth/csrf-token", a.handleCSRFToken)

	mux.HandleFunc("/api/v1/catalog/products", a.handleCatalogProducts)
	mux.HandleFunc("/api/v1/catalog/packages", a.handleCatalogPackages)
	mux.HandleFunc("/api/v1/payment-methods", a.handlePaymentMethods)
	mux.HandleFunc("/api/v1/promos/validate", a.handlePromoValidate)
	mux.HandleFunc("/api/v1/cart/quote", a.handleCartQuote)
	mux.HandleFunc("/api/v1/checkout", a.handleCheckout)

	mux.HandleFunc("/api/v1/admin/products", a.requireAuth(a.handleAdminProducts, "staff", "admin"))
	mux.HandleFunc("/api/v1/admin/products/", a.requireAuth(a.handleAdminProductActions, "admin"))
	mux.HandleFunc("/api/v1/admin/packages", a.requireAuth(a.handleAdminPackages, "staff", "admin"))
	mux.HandleFunc("/api/v1/admin/promos", a.requireAuth(a.handleAdminPromos, "staff", "admin"))
	mux.HandleFunc("/api/v1/admin/promos/", a.requireAuth(a.handleAdminPromoActions, "admin"))
	mux.HandleFunc("/api/v1/admin/orders", a.requireAuth(a.handleAdminOrders, "staff", "admin"))
	mux.HandleFunc("/api/v1/admin/orders/", a.requireAuth(a.handleAdminOrderLookup, "staff", "admin"))
	mux.HandleFunc("/api/v1/admin/audit-logs", a.requireAuth(a.handleAuditLogs, "admin"))
	mux.HandleFunc("/api/v1/admin/users/staff", a.requireAuth(a.handleStaffUsers, "admin"))

	return a.withMiddleware(mux)
}

func (a *API) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		if len(roles) > 0 && !isRoleAllowed(actor.Role, roles) {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		next(w, r.WithContext(service.WithActor(r.Context(), actor)))
	}
}

func isRoleAllowed(role string, allowed []string) bool {
	for _, allow := range allowed {
		if role == allow {
			return true
		}
	}
	return false
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.auth.Login(req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCSRFToken returns a stateless CSRF token valid for the current hour bucket.
// Clients must include this token in the X-CSRF-Token header for all mutating requests.
func (a *API) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"csrf_token": a.generateCSRFToken(),
	})
}

// csrfExemptPaths lists paths that are exempt from CSRF validation.
// Login is excluded because it is called without a prior CSRF token fetch.
var csrfExemptPaths = []string{
	"/api/v1/auth/login",
}

// checkCSRF enforces CSRF token validation for state-changing methods (POST/PUT/PATCH).
// Returns false and writes an error response if validation fails.
func (a *API) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	method := r.Method
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
		return true
	}
	for _, exempt := range csrfExemptPaths {
		if r.URL.Path == exempt {
			return true
		}
	}
	token := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
	if !a.validateCSRFToken(token) {
		writeError(w, http.StatusForbidden, errors.New("missing or invalid CSRF token"))
		return false
	}
	return true
}

func (a *API) handleCatalogProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	products, err := a.service.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (a *API) handleCatalogPackages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	packages, err := a.service.ListPackages(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": packages})
}

func (a *API) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	methods, err := a.service.ListPaymentMethods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payment_methods": methods})
}

func (a *API) handlePromoValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.PromoValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	applied, err := a.service.ValidatePromo(r.Context(), req)
	if err != nil {
		writeError(w, statusForServiceError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"promo": applied})
}

func (a *API) handleCartQuote(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cartID := r.URL.Query().Get("cart_id")
		quote, ok := a.service.LatestQuote(cartID)
		if !ok {
			writeError(w, http.StatusNotFound, errors.New("no quote for cart"))
			return
		}
		writeJSON(w, http.StatusOK, quote)
	case http.MethodPost:
		var req domain.CartQuoteRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		quote, err := a.service.QuoteCart(r.Context(), req)
		if err != nil {
			writeError(w, statusForServiceError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, quote)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.OrderSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.service.SubmitOrder(r.Context(), req)
	if err != nil {
		writeError(w, statusForServiceError(err), err)
		return
	}

	status := http.StatusCreated
	if resp.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (a *API) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := a.service.ListProducts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	case http.MethodPost:
		var req domain.ProductCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		product, err := a.service.CreateProduct(r.Context(), req)
		if err != nil {
			writeError(w, statusForServiceError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"product": product})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAdminProductActions(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v1/admin/products/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeError(w, http.StatusBadRequest, errors.New("invalid product action path"))
		return
	}

	productID := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if productID == "" {
		writeError(w, http.StatusBadRequest, errors.New("product id required"))
		return
	}

	if r.Method != http.MethodPatch {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.ProductUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := a.service.UpdateProduct(r.Context(), productID, req)
	if err != nil {
		writeError(w, statusForServiceError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"product": updated})
}

func (a *API) handleAdminPackages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		packages, err := a.service.ListPackages(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"packages": packages})
	case http.MethodPost:
		var req domain.PackageCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		pkg, err := a.service.CreatePackage(r.Context(), req)
		if err != nil {
			writeError(w, statusForServiceError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"package": pkg})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAdminPromos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		promos, err := a.service.ListPromoCodes(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"promo_codes": promos})
	case http.MethodPost:
		var req domain.PromoCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		promo, err := a.service.CreatePromo(r.Context(), req)
		if err != nil {
			writeError(w, statusForServiceError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"promo_code": promo})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAdminPromoActions(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v1/admin/promos/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeError(w, http.StatusBadRequest, errors.New("invalid promo action path"))
		return
	}

	tail := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if tail == "" {
		writeError(w, http.StatusBadRequest, errors.New("promo id required"))
		return
	}

	if strings.HasSuffix(tail, "/brand-discounts") {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		promoID := strings.Trim(strings.TrimSuffix(tail, "/brand-discounts"), "/")

		var req domain.BrandDiscountCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		created, err := a.service.AttachBrandDiscount(r.Context(), promoID, req)
		if err != nil {
			writeError(w, statusForServiceError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"brand_discount": created})
		return
	}

	if strings.HasSuffix(tail, "/package-discounts") {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		promoID := strings.Trim(strings.TrimSuffix(tail, "/package-discounts"), "/")

		var req domain.PackageDiscountCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		created, err := a.service.AttachPackageDiscount(r.Context(), promoID, req)
		if err != nil {
			writeError(w, statusForServiceError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"package_discount": created})
		return
	}

	switch r.Method {
	case http.MethodGet:
		detail, err := a.service.GetPromoDetail(r.Context(), tail)
		if err != nil {
			writeError(w, statusForServiceError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	case http.MethodPatch:
		var req domain.PromoToggleRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		updated, err := a.service.SetPromoActive(r.Context(), tail, req.Active)
		if err != nil {
			writeError(w, statusForServiceError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"promo_code": updated})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 50, 200)
	orders, err := a.service.ListOrders(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (a *API) handleAdminOrderLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	prefix := "/api/v1/admin/orders/"
	orderID := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if orderID == "" {
		writeError(w, http.StatusBadRequest, errors.New("order id required"))
		return
	}

	order, err := a.service.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, statusForServiceError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (a *API) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
	logs, err := a.service.ListAuditLogs(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audit_logs": logs})
}

func (a *API) handleStaffUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		staff := a.auth.ListStaff()
		writeJSON(w, http.StatusOK, map[string]any{"staff": staff})
	case http.MethodPost:
		var req domain.StaffCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		staff, err := a.auth.CreateStaff(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"staff": staff})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Enforce CSRF protection for all state-changing requests.
		if !a.checkCSRF(w, r) {
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(startedAt))
	})
}

// statusForServiceError maps engine errors onto the storefront's HTTP contract:
// unknown codes are 404, ineligible promos and unknown cart products are 422,
// incomplete checkout forms are 400.
func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCode):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPromoNotApplicable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrIncompleteForm):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidProduct):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidRecord):
		return http.StatusBadRequest
	case strings.Contains(strings.ToLower(err.Error()), "admin role required"):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// For 5xx responses, return a generic message to avoid leaking internal
	// implementation details (stack traces, SQL errors, file paths, etc.).
	// 4xx responses are user-facing so we return the original error message.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
