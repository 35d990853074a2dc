package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/webdroid21/component-pulse-sub000/internal/cart"
	"github.com/webdroid21/component-pulse-sub000/internal/pricing"
	"github.com/webdroid21/component-pulse-sub000/internal/session"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// headerSessionID carries the opaque browsing-session id. The server
// echoes it back on every cart response; a missing or expired id gets a
// fresh session transparently.
const headerSessionID = "X-Session-Id"

// CartHandler exposes the session cart. The cart lives in process
// memory only; every mutation answers with the full cart snapshot so
// the storefront never has to diff.
type CartHandler struct {
	sessions *session.Manager
	catalog  *usecase.Catalog
}

func NewCartHandler(sessions *session.Manager, catalog *usecase.Catalog) *CartHandler {
	return &CartHandler{sessions: sessions, catalog: catalog}
}

func (h *CartHandler) resolveSession(c *gin.Context) *session.Session {
	s := h.sessions.GetOrCreate(c.GetHeader(headerSessionID))
	c.Header(headerSessionID, s.ID)
	return s
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	s := h.resolveSession(c)
	c.JSON(http.StatusOK, s.Cart.Snapshot())
}

type addItemReq struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// POST /v1/cart/items
// The line item snapshots the product's current price and stock; later
// catalog edits do not touch carts already holding the item.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	if !p.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
		return
	}
	if p.Stock < 1 {
		c.JSON(http.StatusConflict, gin.H{"error": "out_of_stock"})
		return
	}

	s := h.resolveSession(c)
	s.Cart.AddItem(cart.LineItem{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPrice:      p.Price,
		CoverImageURL:  p.CoverImageURL,
		Quantity:       req.Quantity,
		AvailableStock: p.Stock,
	})
	c.JSON(http.StatusOK, s.Cart.Snapshot())
}

type changeQtyReq struct {
	Quantity int `json:"quantity"`
}

// PATCH /v1/cart/items/:productId
func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	var req changeQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	s := h.resolveSession(c)
	s.Cart.ChangeQuantity(c.Param("productId"), req.Quantity)
	c.JSON(http.StatusOK, s.Cart.Snapshot())
}

// DELETE /v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	s := h.resolveSession(c)
	s.Cart.RemoveItem(c.Param("productId"))
	c.JSON(http.StatusOK, s.Cart.Snapshot())
}

// DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	s := h.resolveSession(c)
	s.Cart.Clear()
	c.JSON(http.StatusOK, s.Cart.Snapshot())
}

type applyCouponReq struct {
	Code string `json:"code"`
}

// POST /v1/cart/coupon
// An unknown or ineligible code is not an error: the coupon is stored,
// the totals come back with a zero discount and a notice the storefront
// can surface.
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req applyCouponReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	s := h.resolveSession(c)
	s.Checkout.SetCoupon(req.Code)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	totals, err := s.Checkout.Totals(ctx)
	if err != nil && !errors.Is(err, pricing.ErrCouponNotFound) && !errors.Is(err, pricing.ErrCouponNotEligible) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	resp := gin.H{"totals": totals, "couponCode": s.Checkout.Coupon()}
	switch {
	case errors.Is(err, pricing.ErrCouponNotFound):
		resp["couponNotice"] = "coupon_not_found"
	case errors.Is(err, pricing.ErrCouponNotEligible):
		resp["couponNotice"] = "coupon_not_eligible"
	}
	c.JSON(http.StatusOK, resp)
}
