package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webdroid21/component-pulse-sub000/internal/checkout"
)

func paymentReq() checkout.PaymentRequest {
	return checkout.PaymentRequest{
		Amount:          30000,
		Currency:        "UGX",
		TxRef:           "tx-abc",
		CustomerName:    "Okello James",
		CustomerContact: "+256700000000",
	}
}

func TestInitiatePayment_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/payments", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tx-abc", req["tx_ref"])
		assert.EqualValues(t, 30000, req["amount"])

		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]any{"link": "https://gateway.example/pay/tx-abc"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test", "https://shop.example/payment/callback", 5*time.Second)
	sess, err := c.InitiatePayment(context.Background(), paymentReq())
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/pay/tx-abc", sess.RedirectURL)
}

func TestInitiatePayment_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "invalid currency"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test", "", 5*time.Second)
	_, err := c.InitiatePayment(context.Background(), paymentReq())
	assert.ErrorIs(t, err, ErrGatewayRejected)
}

func TestInitiatePayment_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "sk_test", "", 200*time.Millisecond)
	_, err := c.InitiatePayment(context.Background(), paymentReq())
	assert.Error(t, err)
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/transactions/verify", r.URL.Path)
		assert.Equal(t, "tx-abc", r.URL.Query().Get("tx_ref"))
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]any{"tx_ref": "tx-abc", "status": "SUCCESSFUL"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test", "", 5*time.Second)
	status, err := c.VerifyTransaction(context.Background(), "tx-abc")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESSFUL", status)
}

func TestVerifyTransaction_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test", "", 5*time.Second)
	_, err := c.VerifyTransaction(context.Background(), "tx-missing")
	assert.ErrorIs(t, err, ErrTxNotFound)
}
