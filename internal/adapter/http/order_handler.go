package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// OrderHandler serves the storefront's own-order reads. Lookups are
// scoped to the caller's session id; cross-session reads 404.
type OrderHandler struct {
	orders   usecase.OrderRepo
	statuses usecase.OrderCache
}

func NewOrderHandler(orders usecase.OrderRepo, statuses usecase.OrderCache) *OrderHandler {
	return &OrderHandler{orders: orders, statuses: statuses}
}

// GET /v1/orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	sid := c.GetHeader(headerSessionID)
	if sid == "" {
		c.JSON(http.StatusOK, gin.H{"orders": []any{}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.orders.ListBySession(ctx, sid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GET /v1/orders/:id
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	sid := c.GetHeader(headerSessionID)
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	rec, err := h.orders.GetByID(ctx, id)
	if err != nil || rec == nil || rec.SessionID != sid {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /v1/orders/:id/status
// Answered from the Redis status cache when possible; the document store
// is only consulted on a miss.
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.statuses != nil {
		if st, ok, err := h.statuses.GetStatus(ctx, id); err == nil && ok {
			c.JSON(http.StatusOK, gin.H{"orderId": id, "status": st})
			return
		}
	}

	rec, err := h.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	if h.statuses != nil {
		_ = h.statuses.SetStatus(ctx, id, string(rec.Status))
	}
	c.JSON(http.StatusOK, gin.H{"orderId": id, "status": rec.Status})
}
