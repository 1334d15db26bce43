package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tokohape/backend/internal/domain"
	"tokohape/backend/internal/service"
	"tokohape/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, nil, nil, time.Second)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, auth, "*")
}

func postJSON(t *testing.T, api *API, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleCatalogProductsIsPublic(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["products"] == nil {
		t.Fatalf("expected products key in response, got %v", body)
	}
}

func TestHandlePromoValidate(t *testing.T) {
	api := newTestAPI(t)
	csrf := fetchCSRFToken(t, api)
	headers := map[string]string{"X-CSRF-Token": csrf}

	items := []map[string]any{
		{"product_id": "hp-iphone-15", "brand_id": "apple", "price": 13499000, "quantity": 1},
	}

	rec := postJSON(t, api, "/api/v1/promos/validate", map[string]any{"code": "SAVE20", "items": items}, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var body map[string]domain.AppliedPromo
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["promo"].Code != "SAVE20" || body["promo"].DiscountPercent != 20 {
		t.Fatalf("unexpected promo payload: %+v", body["promo"])
	}

	rec = postJSON(t, api, "/api/v1/promos/validate", map[string]any{"code": "NOPE", "items": items}, headers)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", rec.Code)
	}

	xiaomiItems := []map[string]any{
		{"product_id": "hp-redmi-13", "brand_id": "xiaomi", "price": 2899000, "quantity": 1},
	}
	rec = postJSON(t, api, "/api/v1/promos/validate", map[string]any{"code": "SAVE20", "items": xiaomiItems}, headers)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for inapplicable code, got %d", rec.Code)
	}
}

func TestHandleCartQuoteCoercesStringNumbers(t *testing.T) {
	api := newTestAPI(t)
	csrf := fetchCSRFToken(t, api)

	// The storefront client sometimes sends prices and quantities as strings.
	payload := map[string]any{
		"cart_id":    "cart-http",
		"promo_code": "SAVE20",
		"items": []map[string]any{
			{"product_id": "hp-iphone-15", "brand_id": "apple", "price": "13499000", "quantity": "1"},
		},
	}

	rec := postJSON(t, api, "/api/v1/cart/quote", payload, map[string]string{"X-CSRF-Token": csrf})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var quote domain.CartQuote
	if err := json.NewDecoder(rec.Body).Decode(&quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quote.Subtotal != 13499000 {
		t.Fatalf("subtotal: got %d want 13499000", quote.Subtotal)
	}
	if quote.DiscountAmount != 2699800 {
		t.Fatalf("discount: got %d want 2699800", quote.DiscountAmount)
	}
	if quote.Total != 10799200 {
		t.Fatalf("total: got %d want 10799200", quote.Total)
	}

	// The published quote is also retrievable by cart id.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/quote?cart_id=cart-http", nil)
	res := httptest.NewRecorder()
	api.Handler().ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 from latest quote lookup, got %d", res.Code)
	}
}

func TestHandleCheckout(t *testing.T) {
	api := newTestAPI(t)
	csrf := fetchCSRFToken(t, api)
	headers := map[string]string{"X-CSRF-Token": csrf}

	payload := map[string]any{
		"customer_name":     "Budi Santoso",
		"phone_number":      "081234567890",
		"address":           "Jl. Melati No. 1, Bandung",
		"notes":             "",
		"payment_method_id": "pm-transfer",
		"promo_code":        "SAVE20",
		"idempotency_key":   "checkout-http-1",
		"items": []map[string]any{
			{"product_id": "hp-iphone-15", "brand_id": "apple", "name": "iPhone 15 128GB", "price": 13499000, "quantity": 1},
		},
	}

	rec := postJSON(t, api, "/api/v1/checkout", payload, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp domain.OrderSubmitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Duplicate {
		t.Fatalf("first checkout flagged duplicate")
	}
	if resp.Order.TotalPrice != 10799200 {
		t.Fatalf("order total: got %d want 10799200", resp.Order.TotalPrice)
	}

	// Replay with the same idempotency key returns the stored order with 200.
	rec = postJSON(t, api, "/api/v1/checkout", payload, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for replay, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var replay domain.OrderSubmitResponse
	if err := json.NewDecoder(rec.Body).Decode(&replay); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if !replay.Duplicate || replay.Order.ID != resp.Order.ID {
		t.Fatalf("expected duplicate replay of %s, got %+v", resp.Order.ID, replay)
	}
}

func TestHandleCheckoutIncompleteForm(t *testing.T) {
	api := newTestAPI(t)
	csrf := fetchCSRFToken(t, api)

	payload := map[string]any{
		"customer_name":     "Budi Santoso",
		"phone_number":      "",
		"address":           "Jl. Melati No. 1",
		"notes":             "",
		"payment_method_id": "pm-transfer",
		"promo_code":        "",
		"idempotency_key":   "",
		"items": []map[string]any{
			{"product_id": "hp-iphone-15", "brand_id": "apple", "price": 13499000, "quantity": 1},
		},
	}

	rec := postJSON(t, api, "/api/v1/checkout", payload, map[string]string{"X-CSRF-Token": csrf})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete form, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleCheckoutUnknownProduct(t *testing.T) {
	api := newTestAPI(t)
	csrf := fetchCSRFToken(t, api)

	payload := map[string]any{
		"customer_name":     "Budi Santoso",
		"phone_number":      "081234567890",
		"address":           "Jl. Melati No. 1",
		"notes":             "",
		"payment_method_id": "pm-transfer",
		"promo_code":        "",
		"idempotency_key":   "",
		"items": []map[string]any{
			{"product_id": "hp-ghost", "brand_id": "apple", "price": 1000, "quantity": 1},
		},
	}

	rec := postJSON(t, api, "/api/v1/checkout", payload, map[string]string{"X-CSRF-Token": csrf})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown product, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleLogin_Success(t *testing.T) {
	api := newTestAPI(t)

	rec := postJSON(t, api, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "admin123",
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["access_token"] == "" || body["access_token"] == nil {
		t.Fatalf("expected access_token in response, got %v", body)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)

	rec := postJSON(t, api, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "wrongpassword",
	}, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleAdminOrders_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleAdminPromoWorkflow(t *testing.T) {
	api := newTestAPI(t)
	token := loginAsAdmin(t, api)
	csrf := fetchCSRFToken(t, api)
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"X-CSRF-Token":  csrf,
	}

	rec := postJSON(t, api, "/api/v1/admin/promos", map[string]string{"code": "hape5"}, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create promo: expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var created map[string]domain.PromoCode
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created promo: %v", err)
	}
	promo := created["promo_code"]
	if promo.Code != "HAPE5" {
		t.Fatalf("expected uppercased code HAPE5, got %q", promo.Code)
	}

	rec = postJSON(t, api, "/api/v1/admin/promos/"+promo.ID+"/brand-discounts", map[string]any{
		"brand_id":            "xiaomi",
		"discount_percentage": 5,
	}, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("attach brand discount: expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	// The new promo is immediately usable by the storefront.
	rec = postJSON(t, api, "/api/v1/promos/validate", map[string]any{
		"code": "HAPE5",
		"items": []map[string]any{
			{"product_id": "hp-redmi-13", "brand_id": "xiaomi", "price": 2899000, "quantity": 1},
		},
	}, map[string]string{"X-CSRF-Token": csrf})
	if rec.Code != http.StatusOK {
		t.Fatalf("validate new promo: expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	// Deactivating it makes validation fail with 404.
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/promos/"+promo.ID, bytes.NewReader([]byte(`{"active":false}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	res := httptest.NewRecorder()
	api.Handler().ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("toggle promo: expected 200, got %d (body: %s)", res.Code, res.Body.String())
	}

	rec = postJSON(t, api, "/api/v1/promos/validate", map[string]any{
		"code": "HAPE5",
		"items": []map[string]any{
			{"product_id": "hp-redmi-13", "brand_id": "xiaomi", "price": 2899000, "quantity": 1},
		},
	}, map[string]string{"X-CSRF-Token": csrf})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("validate deactivated promo: expected 404, got %d", rec.Code)
	}
}

func TestHandleAdminProductsForbiddenForStaffCreate(t *testing.T) {
	api := newTestAPI(t)
	csrf := fetchCSRFToken(t, api)

	body, _ := json.Marshal(domain.LoginRequest{Username: "staff", Password: "staff123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	api.Handler().ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("staff login failed, status %d", res.Code)
	}
	var login domain.LoginResponse
	if err := json.NewDecoder(res.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	rec := postJSON(t, api, "/api/v1/admin/products", map[string]any{
		"brand_id": "apple",
		"name":     "iPhone SE",
		"price":    6999000,
	}, map[string]string{
		"Authorization": "Bearer " + login.AccessToken,
		"X-CSRF-Token":  csrf,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff product create, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}
