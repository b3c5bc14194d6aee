package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SnapTransaction is the gateway's answer to a created payment intent.
type SnapTransaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// SnapClient creates hosted-checkout transactions at the gateway.
type SnapClient interface {
	CreateTransaction(ctx context.Context, orderID string, grossAmount int64, description string) (*SnapTransaction, error)
}

// HTTPSnapClient talks to the Midtrans Snap API.
type HTTPSnapClient struct {
	baseURL   string
	serverKey string
	client    *http.Client
}

func NewHTTPSnapClient(baseURL, serverKey string) *HTTPSnapClient {
	return &HTTPSnapClient{
		baseURL:   baseURL,
		serverKey: serverKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	ItemDetails []snapItem `json:"item_details"`
}

type snapItem struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

func (c *HTTPSnapClient) CreateTransaction(ctx context.Context, orderID string, grossAmount int64, description string) (*SnapTransaction, error) {
	var payload snapRequest
	payload.TransactionDetails.OrderID = orderID
	payload.TransactionDetails.GrossAmount = grossAmount
	payload.ItemDetails = []snapItem{{
		ID:       orderID,
		Price:    grossAmount,
		Quantity: 1,
		Name:     description,
	}}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal snap payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create snap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Basic auth with the server key as username and empty password.
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send snap request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snap response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("snap API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var tx SnapTransaction
	if err := json.Unmarshal(respBody, &tx); err != nil {
		return nil, fmt.Errorf("unmarshal snap response: %w", err)
	}
	return &tx, nil
}
