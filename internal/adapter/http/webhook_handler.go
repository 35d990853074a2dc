package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/logging"
	"github.com/webdroid21/component-pulse-sub000/internal/security"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

const headerWebhookSignature = "X-Signature"

// TxVerifier re-checks a transaction outcome with the gateway.
// Satisfied by payment.Client.
type TxVerifier interface {
	VerifyTransaction(ctx context.Context, txRef string) (string, error)
}

// WebhookHandler receives the payment gateway's callback. The body is
// authenticated by HMAC signature and the reported outcome is verified
// back with the gateway before the order moves; a webhook alone is
// never trusted.
type WebhookHandler struct {
	secret   string
	orders   usecase.OrderRepo
	statuses usecase.OrderCache
	verifier TxVerifier
}

func NewWebhookHandler(secret string, orders usecase.OrderRepo, statuses usecase.OrderCache, verifier TxVerifier) *WebhookHandler {
	return &WebhookHandler{secret: secret, orders: orders, statuses: statuses, verifier: verifier}
}

type webhookPayload struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

// POST /v1/webhooks/payment
func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 64*1024))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	if err := security.VerifySignature(h.secret, body, c.GetHeader(headerWebhookSignature)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_signature"})
		return
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil || p.TxRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 8*time.Second)
	defer cancel()
	log := logging.From(c)

	verified, err := h.verifier.VerifyTransaction(ctx, p.TxRef)
	if err != nil {
		log.Error("webhook verify failed", "tx_ref", p.TxRef, "err", err)
		// 5xx so the gateway redelivers
		c.JSON(http.StatusBadGateway, gin.H{"error": "verify_failed"})
		return
	}

	target := domain.StatusFailed
	if strings.EqualFold(verified, "successful") || strings.EqualFold(verified, "success") {
		target = domain.StatusConfirmed
	}

	order, err := h.orders.GetByTxRef(ctx, p.TxRef)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			log.Warn("webhook for unknown tx ref", "tx_ref", p.TxRef)
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	// PROCESSING is the normal path; PENDING covers a webhook that beat
	// the stock-reservation consumer. Anything else is a replay.
	applied, err := h.orders.UpdateStatusIf(ctx, order.ID, domain.StatusProcessing, target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	if !applied {
		applied, err = h.orders.UpdateStatusIf(ctx, order.ID, domain.StatusPending, target)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
			return
		}
	}

	if applied && h.statuses != nil {
		_ = h.statuses.SetStatus(ctx, order.ID, string(target))
	}
	if !applied {
		log.Info("webhook replay ignored", "tx_ref", p.TxRef, "order_id", order.ID)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
