package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// OrderItem is one (product, quantity) pair in the order payload.
type OrderItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Customer holds the free-form contact fields collected at checkout.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Note    string `json:"note,omitempty"`
}

// OrderPayload is the order submission body sent to the commerce API. The
// exact shape is the commerce API's contract; this client only assembles it.
type OrderPayload struct {
	CustomerSource string      `json:"customer_source"`
	Items          []OrderItem `json:"items"`
	Customer       Customer    `json:"customer"`
	Preorder       bool        `json:"preorder,omitempty"`
}

// OrderRef identifies a successfully submitted order.
type OrderRef struct {
	OrderID string `json:"order_id"`
}

// Client submits orders to the external commerce API.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a new commerce API client.
func NewClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger,
	}
}

// SubmitOrder POSTs the order payload to the commerce API and returns the
// created order reference.
func (c *Client) SubmitOrder(ctx context.Context, payload OrderPayload) (*OrderRef, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	url := c.baseURL + "/api/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.ErrorContext(ctx, "commerce API rejected order",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(msg)),
		)
		if resp.StatusCode < 500 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("order rejected by commerce API (status %d)", resp.StatusCode))
		}
		return nil, fmt.Errorf("commerce API error: status %d", resp.StatusCode)
	}

	var ref OrderRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	return &ref, nil
}
