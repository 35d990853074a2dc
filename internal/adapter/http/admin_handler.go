package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// AdminHandler is the back-office surface: catalog writes, customer
// reads, store settings, coupons and order management. Every route is
// behind JWT permission checks in the router.
type AdminHandler struct {
	products   usecase.ProductRepo
	categories usecase.CategoryRepo
	customers  usecase.CustomerRepo
	coupons    usecase.CouponAdminRepo
	orders     usecase.OrderRepo
	settings   *usecase.Settings
	catalog    *usecase.Catalog
}

func NewAdminHandler(
	products usecase.ProductRepo,
	categories usecase.CategoryRepo,
	customers usecase.CustomerRepo,
	coupons usecase.CouponAdminRepo,
	orders usecase.OrderRepo,
	settings *usecase.Settings,
	catalog *usecase.Catalog,
) *AdminHandler {
	return &AdminHandler{
		products:   products,
		categories: categories,
		customers:  customers,
		coupons:    coupons,
		orders:     orders,
		settings:   settings,
		catalog:    catalog,
	}
}

func adminCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}

// ---- products ----

// GET /v1/admin/products (includes drafts)
func (h *AdminHandler) ListProducts(c *gin.Context) {
	ctx, cancel := adminCtx(c)
	defer cancel()

	products, err := h.products.List(ctx, usecase.ProductFilter{SortBy: "newest"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// POST /v1/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if p.Name == "" || p.Price < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_product"})
		return
	}

	ctx, cancel := adminCtx(c)
	defer cancel()

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	id, err := h.products.Create(ctx, &p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /v1/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := adminCtx(c)
	defer cancel()

	id := c.Param("id")
	p.UpdatedAt = time.Now().UTC()
	if err := h.products.Update(ctx, id, &p); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	h.catalog.Invalidate(ctx, id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /v1/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	ctx, cancel := adminCtx(c)
	defer cancel()

	id := c.Param("id")
	if err := h.products.Delete(ctx, id); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	h.catalog.Invalidate(ctx, id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type setPublishedReq struct {
	Published *bool `json:"published" binding:"required"`
}

// PATCH /v1/admin/products/:id/published
func (h *AdminHandler) SetProductPublished(c *gin.Context) {
	var req setPublishedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := adminCtx(c)
	defer cancel()

	id := c.Param("id")
	if err := h.products.SetPublished(ctx, id, *req.Published); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	h.catalog.Invalidate(ctx, id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---- categories ----

// POST /v1/admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var cat domain.Category
	if err := c.ShouldBindJSON(&cat); err != nil || cat.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := adminCtx(c)
	defer cancel()

	id, err := h.categories.Create(ctx, &cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DELETE /v1/admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	ctx, cancel := adminCtx(c)
	defer cancel()

	if err := h.categories.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---- customers ----

// GET /v1/admin/customers
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	ctx, cancel := adminCtx(c)
	defer cancel()

	customers, err := h.customers.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// GET /v1/admin/customers/:id
func (h *AdminHandler) GetCustomer(c *gin.Context) {
	ctx, cancel := adminCtx(c)
	defer cancel()

	cust, err := h.customers.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, cust)
}

// ---- settings ----

// GET /v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Current())
}

// PUT /v1/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var s domain.StoreSettings
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if len(s.DeliveryOptions) == 0 || len(s.PaymentMethods) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_settings"})
		return
	}

	ctx, cancel := adminCtx(c)
	defer cancel()

	if err := h.settings.Update(ctx, s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, h.settings.Current())
}

// ---- coupons ----

// GET /v1/admin/coupons
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	ctx, cancel := adminCtx(c)
	defer cancel()

	coupons, err := h.coupons.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

// POST /v1/admin/coupons
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var cp domain.Coupon
	if err := c.ShouldBindJSON(&cp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if cp.Code == "" || cp.Value <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_coupon"})
		return
	}
	if cp.Type == domain.DiscountPercentage && cp.Value > 100 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_coupon"})
		return
	}

	ctx, cancel := adminCtx(c)
	defer cancel()

	if err := h.coupons.Create(ctx, &cp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": cp.Code})
}

type setCouponActiveReq struct {
	Active *bool `json:"active" binding:"required"`
}

// PATCH /v1/admin/coupons/:code/active
func (h *AdminHandler) SetCouponActive(c *gin.Context) {
	var req setCouponActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := adminCtx(c)
	defer cancel()

	if err := h.coupons.SetActive(ctx, c.Param("code"), *req.Active); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---- orders ----

// GET /v1/admin/orders/:id
func (h *AdminHandler) GetOrder(c *gin.Context) {
	ctx, cancel := adminCtx(c)
	defer cancel()

	rec, err := h.orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

type updateOrderStatusReq struct {
	Status domain.Status `json:"status" binding:"required"`
}

// PATCH /v1/admin/orders/:id/status
// Manual transitions for support work: cancelling a stuck order,
// confirming a mobile-money payment reconciled out of band.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	switch req.Status {
	case domain.StatusPending, domain.StatusProcessing, domain.StatusConfirmed,
		domain.StatusFailed, domain.StatusCancelled:
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown_status"})
		return
	}

	ctx, cancel := adminCtx(c)
	defer cancel()

	if err := h.orders.UpdateStatus(ctx, c.Param("id"), req.Status); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
