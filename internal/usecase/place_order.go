package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
)

var ErrDuplicate = errors.New("duplicate transaction reference")

// PlaceOrder turns a frozen cart into the one immutable order record for
// its transaction reference. Resubmitting after a failed payment replays
// the original order id instead of creating a second document.
type PlaceOrder struct {
	repo OrderRepo
	idem IdempotencyStore
	out  OutboxRepo
}

func NewPlaceOrder(repo OrderRepo, idem IdempotencyStore, out OutboxRepo) *PlaceOrder {
	return &PlaceOrder{repo: repo, idem: idem, out: out}
}

func (uc *PlaceOrder) Execute(ctx context.Context, o *domain.Order) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	// Fast path: this tx ref already produced an order.
	if id, ok, _ := uc.idem.Recall(ctx, o.SessionID, o.TxRef); ok {
		return id, nil
	}

	ok, err := uc.idem.TryLock(ctx, o.SessionID, o.TxRef)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrDuplicate
	}

	now := time.Now()
	o.ID = uuid.NewString()
	o.Status = domain.StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now

	if err := uc.repo.Create(ctx, o); err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	// Enqueue via outbox; the poller drains it to the broker later.
	items := make([]OrderPlacedItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderPlacedItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	payload, _ := json.Marshal(OrderPlacedMsg{
		OrderID:       o.ID,
		SessionID:     o.SessionID,
		TxRef:         o.TxRef,
		Total:         o.Amounts.Total,
		Currency:      o.Amounts.Currency,
		PaymentMethod: o.PaymentMethod,
		Items:         items,
	})
	_ = uc.out.InsertOrderPlaced(ctx, payload)

	_ = uc.idem.Remember(ctx, o.SessionID, o.TxRef, o.ID)
	return o.ID, nil
}
