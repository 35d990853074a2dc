package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webdroid21/component-pulse-sub000/internal/cart"
	"github.com/webdroid21/component-pulse-sub000/internal/checkout"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/logging"
	"github.com/webdroid21/component-pulse-sub000/internal/pricing"
	"github.com/webdroid21/component-pulse-sub000/internal/session"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func (f *fakeProductRepo) List(context.Context, usecase.ProductFilter) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, usecase.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Create(context.Context, *domain.Product) (string, error) { return "", nil }
func (f *fakeProductRepo) Update(context.Context, string, *domain.Product) error  { return nil }
func (f *fakeProductRepo) Delete(context.Context, string) error                   { return nil }
func (f *fakeProductRepo) SetPublished(context.Context, string, bool) error       { return nil }
func (f *fakeProductRepo) AdjustStock(context.Context, string, int) error         { return nil }

type fakeCategoryRepo struct{}

func (fakeCategoryRepo) List(context.Context) ([]domain.Category, error)           { return nil, nil }
func (fakeCategoryRepo) Create(context.Context, *domain.Category) (string, error)  { return "", nil }
func (fakeCategoryRepo) Delete(context.Context, string) error                      { return nil }

type fakeCouponRepo struct {
	coupons map[string]*domain.Coupon
}

func (f *fakeCouponRepo) FindByCode(_ context.Context, code string) (*domain.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, pricing.ErrCouponNotFound
	}
	return c, nil
}

type nopPlacer struct{}

func (nopPlacer) Execute(context.Context, *domain.Order) (string, error) { return "o1", nil }

type nopGateway struct{}

func (nopGateway) InitiatePayment(context.Context, checkout.PaymentRequest) (*checkout.PaymentSession, error) {
	return &checkout.PaymentSession{RedirectURL: "https://pay.example/x"}, nil
}

func newCartTestRouter(t *testing.T, products map[string]*domain.Product, coupons map[string]*domain.Coupon) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := usecase.NewCatalog(&fakeProductRepo{products: products}, fakeCategoryRepo{}, nil, logging.New("test"))
	resolver := pricing.NewResolver(&fakeCouponRepo{coupons: coupons})

	factory := func(sessionID string, c *cart.Store) *checkout.Checkout {
		s := domain.DefaultSettings()
		return checkout.New(c, resolver, nopPlacer{}, nopGateway{}, checkout.Options{
			SessionID:       sessionID,
			Currency:        s.Currency,
			DeliveryOptions: s.DeliveryOptions,
			PaymentMethods:  s.PaymentMethods,
		}, func() string { return "tx-test" })
	}
	sessions := session.NewManager(time.Hour, factory)
	h := NewCartHandler(sessions, catalog)

	r := gin.New()
	r.GET("/v1/cart", h.GetCart)
	r.POST("/v1/cart/items", h.AddItem)
	r.PATCH("/v1/cart/items/:productId", h.ChangeQuantity)
	r.DELETE("/v1/cart/items/:productId", h.RemoveItem)
	r.POST("/v1/cart/coupon", h.ApplyCoupon)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(headerSessionID, sessionID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddItem_SnapshotsPriceAndEchoesSession(t *testing.T) {
	r := newCartTestRouter(t, map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Solar Panel 200W", Price: 450000, Stock: 4, Published: true},
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/cart/items", "", gin.H{"productId": "p1", "quantity": 2})

	require.Equal(t, http.StatusOK, w.Code)
	sid := w.Header().Get(headerSessionID)
	require.NotEmpty(t, sid)

	var snap cart.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(450000), snap.Items[0].UnitPrice)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, int64(900000), snap.Subtotal)

	// second call with the echoed session id merges into the same cart
	w2 := doJSON(t, r, http.MethodPost, "/v1/cart/items", sid, gin.H{"productId": "p1", "quantity": 5})
	require.Equal(t, http.StatusOK, w2.Code)
	var snap2 cart.Snapshot
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &snap2))
	require.Len(t, snap2.Items, 1)
	// 2+5 clamped to the snapshotted stock of 4
	assert.Equal(t, 4, snap2.Items[0].Quantity)
}

func TestAddItem_UnknownAndUnpublishedProducts(t *testing.T) {
	r := newCartTestRouter(t, map[string]*domain.Product{
		"draft": {ID: "draft", Name: "Draft", Price: 1000, Stock: 3, Published: false},
		"oos":   {ID: "oos", Name: "Gone", Price: 1000, Stock: 0, Published: true},
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/cart/items", "", gin.H{"productId": "nope", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/v1/cart/items", "", gin.H{"productId": "draft", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/v1/cart/items", "", gin.H{"productId": "oos", "quantity": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChangeQuantity_ZeroRemovesLine(t *testing.T) {
	r := newCartTestRouter(t, map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Inverter", Price: 250000, Stock: 10, Published: true},
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/cart/items", "", gin.H{"productId": "p1", "quantity": 1})
	sid := w.Header().Get(headerSessionID)

	w = doJSON(t, r, http.MethodPatch, "/v1/cart/items/p1", sid, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)

	var snap cart.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Empty(t, snap.Items)
}

func TestApplyCoupon_UnknownCodeReturnsNotice(t *testing.T) {
	r := newCartTestRouter(t, map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Battery", Price: 100000, Stock: 5, Published: true},
	}, map[string]*domain.Coupon{
		"SAVE10": {Code: "SAVE10", Type: domain.DiscountPercentage, Value: 10, Active: true},
	})

	w := doJSON(t, r, http.MethodPost, "/v1/cart/items", "", gin.H{"productId": "p1", "quantity": 1})
	sid := w.Header().Get(headerSessionID)

	w = doJSON(t, r, http.MethodPost, "/v1/cart/coupon", sid, gin.H{"code": "BOGUS"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		CouponNotice string      `json:"couponNotice"`
		Totals       cart.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "coupon_not_found", resp.CouponNotice)
	assert.Zero(t, resp.Totals.Discount)

	w = doJSON(t, r, http.MethodPost, "/v1/cart/coupon", sid, gin.H{"code": "SAVE10"})
	require.Equal(t, http.StatusOK, w.Code)
	resp.CouponNotice = ""
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.CouponNotice)
	assert.Equal(t, int64(10000), resp.Totals.Discount)
}
