package kafka

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// PaymentStatusHandler applies the gateway's settlement outcome to the
// order record. Events arrive keyed by transaction reference; the order
// id is resolved from it when the feed omits one.
type PaymentStatusHandler struct {
	Repo  usecase.OrderRepo
	Cache usecase.OrderCache // optional
}

func NewPaymentStatusHandler(repo usecase.OrderRepo, cache usecase.OrderCache) *PaymentStatusHandler {
	return &PaymentStatusHandler{Repo: repo, Cache: cache}
}

func (h *PaymentStatusHandler) Handle(ctx context.Context, ev usecase.PaymentStatusChangedMsg) error {
	var newStatus domain.Status
	switch strings.ToUpper(ev.Status) {
	case "SUCCESS", "SUCCESSFUL":
		newStatus = domain.StatusConfirmed
	default:
		newStatus = domain.StatusFailed
	}

	orderID := ev.OrderID
	if orderID == "" {
		o, err := h.Repo.GetByTxRef(ctx, ev.TxRef)
		if err != nil {
			return fmt.Errorf("resolve order by tx ref %s: %w", ev.TxRef, err)
		}
		orderID = o.ID
	}

	// Guarded transition: only PROCESSING orders take the settlement
	// outcome. A false return means a replay or an out-of-order event.
	if _, err := h.Repo.UpdateStatusIf(ctx, orderID, domain.StatusProcessing, newStatus); err != nil {
		return err
	}

	// Cache best-effort
	if h.Cache != nil {
		_ = h.Cache.SetStatus(ctx, orderID, string(newStatus))
	}
	return nil
}
