package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/security"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

type stubOrderRepo struct {
	order *domain.Order
}

func (s *stubOrderRepo) Create(context.Context, *domain.Order) error { return nil }

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, usecase.ErrNotFound
}

func (s *stubOrderRepo) GetByTxRef(_ context.Context, txRef string) (*domain.Order, error) {
	if s.order != nil && s.order.TxRef == txRef {
		return s.order, nil
	}
	return nil, usecase.ErrNotFound
}

func (s *stubOrderRepo) ListBySession(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _ string, to domain.Status) error {
	s.order.Status = to
	return nil
}

func (s *stubOrderRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.Status) (bool, error) {
	if s.order == nil || s.order.ID != id || s.order.Status != from {
		return false, nil
	}
	s.order.Status = to
	return true, nil
}

type stubVerifier struct {
	status string
	err    error
}

func (s stubVerifier) VerifyTransaction(context.Context, string) (string, error) {
	return s.status, s.err
}

const hookSecret = "hook-secret"

func postWebhook(r *gin.Engine, body []byte, sign bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sign {
		req.Header.Set(headerWebhookSignature, security.SignPayload(hookSecret, body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newWebhookRouter(repo *stubOrderRepo, verifier TxVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWebhookHandler(hookSecret, repo, nil, verifier)
	r := gin.New()
	r.POST("/v1/webhooks/payment", h.HandlePayment)
	return r
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1", TxRef: "tx-1", Status: domain.StatusProcessing}}
	r := newWebhookRouter(repo, stubVerifier{status: "successful"})

	w := postWebhook(r, []byte(`{"tx_ref":"tx-1","status":"successful"}`), false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, domain.StatusProcessing, repo.order.Status)
}

func TestWebhook_ConfirmsVerifiedPayment(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1", TxRef: "tx-1", Status: domain.StatusProcessing}}
	r := newWebhookRouter(repo, stubVerifier{status: "successful"})

	w := postWebhook(r, []byte(`{"tx_ref":"tx-1","status":"successful"}`), true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusConfirmed, repo.order.Status)
}

func TestWebhook_TrustsVerifierOverPayload(t *testing.T) {
	// payload claims success but the gateway says failed
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1", TxRef: "tx-1", Status: domain.StatusProcessing}}
	r := newWebhookRouter(repo, stubVerifier{status: "failed"})

	w := postWebhook(r, []byte(`{"tx_ref":"tx-1","status":"successful"}`), true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusFailed, repo.order.Status)
}

func TestWebhook_ReplayIsIgnored(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1", TxRef: "tx-1", Status: domain.StatusConfirmed}}
	r := newWebhookRouter(repo, stubVerifier{status: "failed"})

	w := postWebhook(r, []byte(`{"tx_ref":"tx-1","status":"failed"}`), true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusConfirmed, repo.order.Status)
}

func TestWebhook_VerifyFailureAsksForRedelivery(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1", TxRef: "tx-1", Status: domain.StatusProcessing}}
	r := newWebhookRouter(repo, stubVerifier{err: assert.AnError})

	w := postWebhook(r, []byte(`{"tx_ref":"tx-1","status":"successful"}`), true)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, domain.StatusProcessing, repo.order.Status)
}
