// Package payment wraps the hosted payment gateway's REST API. The
// gateway collects the money through its own redirect page and reports
// the outcome on its settlement feed and webhook, correlated by the
// transaction reference we send.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/webdroid21/component-pulse-sub000/internal/checkout"
)

var (
	ErrGatewayRejected = errors.New("payment gateway rejected the charge")
	ErrTxNotFound      = errors.New("transaction not found")
)

type Client struct {
	http        *http.Client
	baseURL     string
	secretKey   string
	redirectURL string
}

func NewClient(baseURL, secretKey, redirectURL string, timeout time.Duration) *Client {
	return &Client{
		http:        &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		secretKey:   secretKey,
		redirectURL: redirectURL,
	}
}

type chargeRequest struct {
	TxRef       string         `json:"tx_ref"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	RedirectURL string         `json:"redirect_url"`
	Customer    chargeCustomer `json:"customer"`
}

type chargeCustomer struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type chargeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// InitiatePayment opens a hosted checkout session and returns the link
// the storefront redirects the customer to.
func (c *Client) InitiatePayment(ctx context.Context, req checkout.PaymentRequest) (*checkout.PaymentSession, error) {
	body, err := json.Marshal(chargeRequest{
		TxRef:       req.TxRef,
		Amount:      req.Amount,
		Currency:    req.Currency,
		RedirectURL: c.redirectURL,
		Customer:    chargeCustomer{Name: req.CustomerName, Contact: req.CustomerContact},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway call: %w", err)
	}
	defer resp.Body.Close()

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, out.Message)
	}
	if out.Data.Link == "" {
		return nil, fmt.Errorf("%w: empty redirect link", ErrGatewayRejected)
	}

	return &checkout.PaymentSession{RedirectURL: out.Data.Link}, nil
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		TxRef  string `json:"tx_ref"`
		Status string `json:"status"`
	} `json:"data"`
}

// VerifyTransaction re-checks a transaction's outcome by reference, used
// when a webhook is suspect or missing.
func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v3/transactions/verify?tx_ref="+txRef, nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrTxNotFound
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode verify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.Status != "success" {
		return "", ErrGatewayRejected
	}
	return out.Data.Status, nil
}

var _ checkout.PaymentGateway = (*Client)(nil)
