package queue

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/logging"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// OrderPlacedHandler reacts to a freshly created order: it decrements
// catalog stock for each line and moves gateway-paid orders to
// PROCESSING while the payment outcome is awaited. Intended for the JSON
// adapter (queue.JSONHandler[usecase.OrderPlacedMsg]).
type OrderPlacedHandler struct {
	products usecase.ProductRepo
	orders   usecase.OrderRepo
}

func NewOrderPlacedHandler(products usecase.ProductRepo, orders usecase.OrderRepo) *OrderPlacedHandler {
	return &OrderPlacedHandler{products: products, orders: orders}
}

func (h *OrderPlacedHandler) HandleOrderPlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	log := logging.FromCtx(ctx)

	for _, it := range msg.Items {
		if err := h.products.AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
			// A missing product is not retryable; anything else is.
			if errors.Is(err, usecase.ErrNotFound) {
				log.Warn("stock decrement for unknown product", "product_id", it.ProductID, "order_id", msg.OrderID)
				continue
			}
			return fmt.Errorf("adjust stock %s: %w", it.ProductID, err)
		}
	}

	// COD and mobile-money orders stay PENDING until fulfillment.
	if msg.PaymentMethod == domain.PayCard {
		if _, err := h.orders.UpdateStatusIf(ctx, msg.OrderID, domain.StatusPending, domain.StatusProcessing); err != nil {
			return fmt.Errorf("mark order processing: %w", err)
		}
	}
	return nil
}
