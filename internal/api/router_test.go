package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jafarshop/storefront/internal/address"
	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/repository/memory"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/internal/storefront"
)

// fakeShop is a minimal storefront backend
type fakeShop struct {
	mu           sync.Mutex
	addStatus    int
	infoStatus   int
	redirectURL  string
	cartAdds     int
	checkoutBody map[string]interface{}

	commentStatus int
	lastComment   map[string]interface{}
}

func (f *fakeShop) handler(t *testing.T) http.Handler {
	write := func(w http.ResponseWriter, status int, body interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(storefront.PathAuthVerify, func(w http.ResponseWriter, r *http.Request) {
		write(w, 200, map[string]interface{}{"data": map[string]string{"token": "tok"}})
	})
	mux.HandleFunc(storefront.PathShop+"/linen-shirt", func(w http.ResponseWriter, r *http.Request) {
		write(w, 200, map[string]interface{}{"data": map[string]interface{}{
			"id": 4, "slug": "linen-shirt", "title": "پیراهن کتان",
			"varieties": []map[string]interface{}{
				{
					"id": 40, "price_main": 450000, "store_stock": 3,
					"getColor":       map[string]interface{}{"id": 1, "fa_name": "مشکی"},
					"showProperties": []map[string]interface{}{{"id": 1, "name": "سایز", "child": map[string]interface{}{"id": 11, "name": "L"}}},
				},
				{
					"id": 41, "price_main": 450000, "store_stock": 0,
					"getColor":       map[string]interface{}{"id": 1, "fa_name": "مشکی"},
					"showProperties": []map[string]interface{}{{"id": 1, "name": "سایز", "child": map[string]interface{}{"id": 12, "name": "XL"}}},
				},
			},
		}})
	})
	mux.HandleFunc(storefront.PathComment, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Method == http.MethodGet {
			if r.URL.Query().Get("product_id") != "4" {
				write(w, 200, map[string]interface{}{"data": []interface{}{}})
				return
			}
			write(w, 200, map[string]interface{}{"data": []map[string]interface{}{
				{"id": 1, "product_id": 4, "body": "جنس خوبی داشت", "rate": 5, "created_at": "2024-07-01T10:00:00Z"},
			}})
			return
		}
		if f.commentStatus != 0 {
			w.WriteHeader(f.commentStatus)
			return
		}
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.lastComment = body
		write(w, 200, map[string]interface{}{"message": "ok"})
	})
	mux.HandleFunc(storefront.PathAddress, func(w http.ResponseWriter, r *http.Request) {
		write(w, 201, map[string]interface{}{"data": map[string]interface{}{"id": 12}})
	})
	mux.HandleFunc(storefront.PathCartIndex, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cartAdds++
		if f.addStatus != 0 {
			write(w, f.addStatus, map[string]interface{}{"data": []map[string]string{{"field": "variety_id", "message": "نامعتبر"}}})
			return
		}
		write(w, 200, map[string]interface{}{"message": "ok"})
	})
	mux.HandleFunc(storefront.PathCartCheckout, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.infoStatus != 0 {
			w.WriteHeader(f.infoStatus)
			return
		}
		write(w, 200, map[string]interface{}{"data": map[string]interface{}{
			"sendMethods": []map[string]interface{}{{"id": 22, "name": "پست", "receive_dates": []map[string]interface{}{{"date": "1403-05-02", "available": true}}}},
			"payMethods": []map[string]interface{}{
				{"id": 3, "name": "درگاه", "type": "online"},
				{"id": 4, "name": "پرداخت در محل", "type": "cash"},
			},
		}})
	})
	mux.HandleFunc(storefront.PathCart, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.checkoutBody = body
		data := map[string]interface{}{"order_id": 991}
		if f.redirectURL != "" {
			data["redirect_url"] = f.redirectURL
		}
		write(w, 200, map[string]interface{}{"success": true, "data": data})
	})
	return mux
}

type testServer struct {
	router *gin.Engine
	shop   *fakeShop
	logs   *observer.ObservedLogs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, core)
	})))

	shop := &fakeShop{}
	backendSrv := httptest.NewServer(shop.handler(t))
	t.Cleanup(backendSrv.Close)

	cfg := &config.Config{
		Environment: "test",
		Backend:     config.BackendConfig{BaseURL: backendSrv.URL, Timeout: 5 * time.Second},
		Checkout:    config.CheckoutConfig{PublicURL: "https://shop.example.ir"},
	}

	sessions := session.NewManager(memory.NewSessionRepository(), time.Hour, "salt", logger)
	client := storefront.NewClient(cfg.Backend, logger)
	svc := &handlers.Services{
		Sessions:  sessions,
		Backend:   client,
		Carts:     cart.NewStore(sessions),
		Addresses: address.NewResolver(client, sessions, logger),
		Checkout:  checkout.NewService(client, sessions, cfg.Checkout, logger),
	}

	return &testServer{router: NewRouter(cfg, svc, logger), shop: shop, logs: logs}
}

func (s *testServer) do(t *testing.T, method, path, sid string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set(middleware.SessionHeader, sid)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signedIn creates a session and logs it in
func (s *testServer) signedIn(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sid := decode(t, w)["session_id"].(string)

	w = s.do(t, http.MethodPost, "/v1/auth/verify", sid, gin.H{"mobile": "09121234567", "code": "1234"})
	require.Equal(t, http.StatusOK, w.Code)
	return sid
}

var validAddress = gin.H{
	"province_id":     8,
	"city_id":         301,
	"zipcode":         "1234567890",
	"receiver_name":   "علی رضایی",
	"receiver_number": "09121234567",
	"adress":          "تهران، خیابان آزادی",
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionRequired(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/v1/cart", "f47ac10b-58cc-4372-a567-0e02b2c3d479", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResolveVariety(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/v1/products/linen-shirt/resolve", "", gin.H{"child_ids": []int{11}, "color": "مشکی"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["in_stock"])
	assert.Equal(t, "40", body["item"].(map[string]interface{})["id"])

	w = s.do(t, http.MethodPost, "/v1/products/linen-shirt/resolve", "", gin.H{"child_ids": []int{12}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["in_stock"])

	w = s.do(t, http.MethodPost, "/v1/products/linen-shirt/resolve", "", gin.H{"color": "مشکی"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAddressValidation(t *testing.T) {
	s := newTestServer(t)
	sid := s.signedIn(t)

	w := s.do(t, http.MethodPost, "/v1/address", sid, gin.H{"zipcode": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	messages := decode(t, w)["messages"].([]interface{})
	assert.Len(t, messages, 6)
}

func TestCartCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	sid := s.signedIn(t)

	w := s.do(t, http.MethodPost, "/v1/checkout", sid, gin.H{"payment_type": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")

	w = s.do(t, http.MethodPost, "/v1/cart/items", sid, gin.H{"slug": "linen-shirt", "selection": gin.H{"child_ids": []int{11}}, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(900000), decode(t, w)["total_price"])

	w = s.do(t, http.MethodPost, "/v1/checkout", sid, gin.H{"payment_type": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "no address")

	w = s.do(t, http.MethodPost, "/v1/address", sid, validAddress)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/v1/checkout", sid, gin.H{"payment_type": "cash"})
	require.Equal(t, http.StatusOK, w.Code)
	outcome := decode(t, w)["outcome"].(map[string]interface{})
	assert.Equal(t, "navigate", outcome["kind"])
	assert.Equal(t, "/checkout/success", outcome["url"])
	assert.Equal(t, float64(22), s.shop.checkoutBody["send_method_id"])
	assert.Equal(t, "https://shop.example.ir/checkout/success", s.shop.checkoutBody["callback_url"])

	w = s.do(t, http.MethodGet, "/v1/cart", sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total_items"])
}

func TestOnlineCheckoutRedirects(t *testing.T) {
	s := newTestServer(t)
	s.shop.redirectURL = "https://gateway.example.ir/pay/1"
	sid := s.signedIn(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/address", sid, validAddress).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/v1/cart/items", sid, gin.H{"slug": "linen-shirt", "selection": gin.H{"child_ids": []int{11}}}).Code)

	w := s.do(t, http.MethodPost, "/v1/checkout", sid, gin.H{"payment_type": "online"})
	require.Equal(t, http.StatusOK, w.Code)
	outcome := decode(t, w)["outcome"].(map[string]interface{})
	assert.Equal(t, "redirect", outcome["kind"])
	assert.Equal(t, "https://gateway.example.ir/pay/1", outcome["url"])
}

func TestRefusedAddLeavesCartEmpty(t *testing.T) {
	s := newTestServer(t)
	s.shop.addStatus = http.StatusUnprocessableEntity
	sid := s.signedIn(t)

	w := s.do(t, http.MethodPost, "/v1/cart/items", sid, gin.H{"slug": "linen-shirt", "selection": gin.H{"child_ids": []int{11}}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "variety_invalid", body["code"])
	assert.Equal(t, "remote_add", body["step"])

	w = s.do(t, http.MethodGet, "/v1/cart", sid, nil)
	assert.Equal(t, float64(0), decode(t, w)["total_items"])
}

func TestOutOfStockNeverReachesBackend(t *testing.T) {
	s := newTestServer(t)
	sid := s.signedIn(t)

	w := s.do(t, http.MethodPost, "/v1/cart/items", sid, gin.H{"slug": "linen-shirt", "selection": gin.H{"child_ids": []int{12}}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, s.shop.cartAdds)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	s := newTestServer(t)
	s.shop.infoStatus = http.StatusUnauthorized
	sid := s.signedIn(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/address", sid, validAddress).Code)

	w := s.do(t, http.MethodGet, "/v1/checkout/info", sid, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// token is gone, the cart add is refused before the backend is called
	w = s.do(t, http.MethodPost, "/v1/cart/items", sid, gin.H{"slug": "linen-shirt", "selection": gin.H{"child_ids": []int{11}}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, s.shop.cartAdds)
}

func TestStaleAddressIsForgotten(t *testing.T) {
	s := newTestServer(t)
	s.shop.infoStatus = http.StatusNotFound
	sid := s.signedIn(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/address", sid, validAddress).Code)

	w := s.do(t, http.MethodGet, "/v1/checkout/info", sid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/v1/checkout/info", sid, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "address_required", decode(t, w)["code"])
}

func TestUpdateQuantityCeiling(t *testing.T) {
	s := newTestServer(t)
	sid := s.signedIn(t)

	w := s.do(t, http.MethodPost, "/v1/cart/items", sid, gin.H{"slug": "linen-shirt", "selection": gin.H{"child_ids": []int{11}}, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPatch, "/v1/cart/items/40", sid, gin.H{"quantity": 9223372036854775807})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "quantity_invalid", decode(t, w)["code"])

	w = s.do(t, http.MethodGet, "/v1/cart", sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(900000), decode(t, w)["total_price"])
}

func TestSignInLogsOmitSessionID(t *testing.T) {
	s := newTestServer(t)
	sid := s.signedIn(t)

	signedIn := s.logs.FilterMessage("Customer signed in").All()
	require.Len(t, signedIn, 1)
	assert.NotEmpty(t, signedIn[0].ContextMap()["session"])

	for _, entry := range s.logs.All() {
		assert.NotContains(t, entry.Message, sid)
		for key, value := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(value), sid, "field %q of %q", key, entry.Message)
		}
	}
}

func TestListComments(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/v1/products/linen-shirt/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode(t, w)["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "جنس خوبی داشت", comments[0].(map[string]interface{})["body"])
}

func TestSubmitComment(t *testing.T) {
	t.Run("posts under the resolved product id", func(t *testing.T) {
		s := newTestServer(t)
		sid := s.signedIn(t)

		w := s.do(t, http.MethodPut, "/v1/products/linen-shirt/comments", sid, gin.H{"body": "عالی", "rate": 4})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, float64(4), s.shop.lastComment["product_id"])
		assert.Equal(t, float64(4), s.shop.lastComment["rate"])
	})

	t.Run("expired token is cleared", func(t *testing.T) {
		s := newTestServer(t)
		s.shop.commentStatus = http.StatusUnauthorized
		sid := s.signedIn(t)

		w := s.do(t, http.MethodPut, "/v1/products/linen-shirt/comments", sid, gin.H{"body": "عالی", "rate": 4})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		// the session stays but is no longer signed in
		w = s.do(t, http.MethodGet, "/v1/me", sid, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, decode(t, w)["error"], "not signed in")
	})
}
