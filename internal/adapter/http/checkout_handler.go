package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/http/middleware"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/payment"
	"github.com/webdroid21/component-pulse-sub000/internal/checkout"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/logging"
	"github.com/webdroid21/component-pulse-sub000/internal/pricing"
	"github.com/webdroid21/component-pulse-sub000/internal/session"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// CheckoutHandler drives the per-session checkout flow over HTTP. All
// routes resolve the session the same way the cart does.
type CheckoutHandler struct {
	sessions  *session.Manager
	customers usecase.CustomerRepo
}

func NewCheckoutHandler(sessions *session.Manager, customers usecase.CustomerRepo) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, customers: customers}
}

func (h *CheckoutHandler) resolveSession(c *gin.Context) *session.Session {
	s := h.sessions.GetOrCreate(c.GetHeader(headerSessionID))
	c.Header(headerSessionID, s.ID)
	return s
}

// GET /v1/checkout
func (h *CheckoutHandler) GetState(c *gin.Context) {
	s := h.resolveSession(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	totals, err := s.Checkout.Totals(ctx)
	if err != nil && !errors.Is(err, pricing.ErrCouponNotFound) && !errors.Is(err, pricing.ErrCouponNotEligible) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":  s.Checkout.State(),
		"cart":   s.Cart.Snapshot(),
		"totals": totals,
	})
}

// PUT /v1/checkout/shipping
func (h *CheckoutHandler) SubmitShipping(c *gin.Context) {
	var info domain.ShippingInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	s := h.resolveSession(c)
	if err := s.Checkout.SubmitShipping(info); err != nil {
		var fe checkout.FieldErrors
		if errors.As(err, &fe) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "fields": fe})
			return
		}
		if errors.Is(err, checkout.ErrWrongStep) {
			c.JSON(http.StatusConflict, gin.H{"error": "wrong_step"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, s.Checkout.State())
}

type selectDeliveryReq struct {
	OptionID string `json:"optionId" binding:"required"`
}

// PUT /v1/checkout/delivery
func (h *CheckoutHandler) SelectDelivery(c *gin.Context) {
	var req selectDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	s := h.resolveSession(c)
	if err := s.Checkout.SelectDelivery(req.OptionID); err != nil {
		switch {
		case errors.Is(err, checkout.ErrWrongStep):
			c.JSON(http.StatusConflict, gin.H{"error": "wrong_step"})
		case errors.Is(err, checkout.ErrUnknownDeliveryOption):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown_delivery_option"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		}
		return
	}
	c.JSON(http.StatusOK, s.Checkout.State())
}

type selectPaymentReq struct {
	Method string `json:"method" binding:"required"`
}

// PUT /v1/checkout/payment
func (h *CheckoutHandler) SelectPayment(c *gin.Context) {
	var req selectPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	s := h.resolveSession(c)
	if err := s.Checkout.SelectPayment(req.Method); err != nil {
		switch {
		case errors.Is(err, checkout.ErrWrongStep):
			c.JSON(http.StatusConflict, gin.H{"error": "wrong_step"})
		case errors.Is(err, checkout.ErrUnknownPaymentMethod):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown_payment_method"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		}
		return
	}
	c.JSON(http.StatusOK, s.Checkout.State())
}

// POST /v1/checkout/back
func (h *CheckoutHandler) Back(c *gin.Context) {
	s := h.resolveSession(c)
	s.Checkout.Back()
	c.JSON(http.StatusOK, s.Checkout.State())
}

// POST /v1/checkout/submit
func (h *CheckoutHandler) Submit(c *gin.Context) {
	s := h.resolveSession(c)

	// Snapshot before Submit clears the checkout on success.
	state := s.Checkout.State()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	res, err := s.Checkout.Submit(ctx)
	if err != nil {
		middleware.CheckoutSubmits.WithLabelValues(state.SelectedPayment, "error").Inc()
		switch {
		case errors.Is(err, checkout.ErrWrongStep):
			c.JSON(http.StatusConflict, gin.H{"error": "wrong_step"})
		case errors.Is(err, checkout.ErrNoPaymentMethod):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no_payment_method"})
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "empty_cart"})
		case errors.Is(err, payment.ErrGatewayRejected):
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment_unavailable", "retryable": true})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "submit_failed", "retryable": true})
		}
		return
	}
	middleware.CheckoutSubmits.WithLabelValues(state.SelectedPayment, "ok").Inc()

	h.upsertCustomer(ctx, state.Shipping)

	status := http.StatusCreated
	if res.RedirectURL != "" {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// upsertCustomer records the shipper as a customer, best effort.
func (h *CheckoutHandler) upsertCustomer(ctx context.Context, info domain.ShippingInfo) {
	if h.customers == nil {
		return
	}
	cust := &domain.Customer{
		Name:  info.Name,
		Email: info.Contact,
		Phone: info.Contact,
		Addresses: []domain.Address{
			{Street: info.Address, City: info.City},
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := h.customers.Upsert(ctx, cust); err != nil {
		logging.FromCtx(ctx).Warn("customer upsert failed", "err", err)
	}
}
