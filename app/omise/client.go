package omise

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.omise.co"

type Config struct {
	SecretKey   string
	BaseURL     string
	HTTPTimeout time.Duration
}

// Client talks to the provider's REST API. Every method performs exactly one
// network round trip and never retries; retries are the caller's concern.
type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateCharge(ctx context.Context, req *ChargeRequest) (*Charge, error) {
	values := url.Values{}
	values.Set("amount", strconv.FormatInt(req.Amount, 10))
	values.Set("currency", strings.ToUpper(req.Currency))
	if req.Description != "" {
		values.Set("description", req.Description)
	}
	if req.ReturnURI != "" {
		values.Set("return_uri", req.ReturnURI)
	}
	for k, v := range req.Metadata {
		values.Set("metadata["+k+"]", v)
	}
	if req.Customer != "" {
		values.Set("customer", req.Customer)
	}
	if req.Card != "" {
		values.Set("card", req.Card)
	}
	if req.Capture != nil {
		values.Set("capture", strconv.FormatBool(*req.Capture))
	}

	headers := map[string]string{}
	if strings.TrimSpace(req.IdempotencyKey) != "" {
		headers["Idempotency-Key"] = req.IdempotencyKey
	}

	body, err := c.do(ctx, http.MethodPost, "/charges", values, headers)
	if err != nil {
		return nil, err
	}

	var charge Charge
	if err := json.Unmarshal(body, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

func (c *Client) RetrieveCharge(ctx context.Context, chargeID string) (*Charge, error) {
	if strings.TrimSpace(chargeID) == "" {
		return nil, errors.New("omise: charge id is required")
	}

	body, err := c.do(ctx, http.MethodGet, "/charges/"+url.PathEscape(chargeID), nil, nil)
	if err != nil {
		return nil, err
	}

	var charge Charge
	if err := json.Unmarshal(body, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

func (c *Client) CreateRefund(ctx context.Context, chargeID string, amount int64, metadata map[string]string) (*Refund, error) {
	if strings.TrimSpace(chargeID) == "" {
		return nil, errors.New("omise: charge id is required")
	}

	values := url.Values{}
	values.Set("amount", strconv.FormatInt(amount, 10))
	for k, v := range metadata {
		values.Set("metadata["+k+"]", v)
	}

	body, err := c.do(ctx, http.MethodPost, "/charges/"+url.PathEscape(chargeID)+"/refunds", values, nil)
	if err != nil {
		return nil, err
	}

	var refund Refund
	if err := json.Unmarshal(body, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// CreateCustomer creates a provider customer carrying the given card token.
// The returned customer's DefaultCard is the id of the stored card.
func (c *Client) CreateCustomer(ctx context.Context, description, cardToken string) (*Customer, error) {
	values := url.Values{}
	if description != "" {
		values.Set("description", description)
	}
	if cardToken != "" {
		values.Set("card", cardToken)
	}

	body, err := c.do(ctx, http.MethodPost, "/customers", values, nil)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errors.New("omise: customer id is required")
	}

	body, err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID), nil, nil)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// AttachCard stores the card behind token on an existing customer and returns
// the newly attached card. Not idempotent: each call stores another card.
func (c *Client) AttachCard(ctx context.Context, customerID, token string) (*Card, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errors.New("omise: customer id is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("omise: card token is required")
	}

	values := url.Values{}
	values.Set("card", token)

	body, err := c.do(ctx, http.MethodPatch, "/customers/"+url.PathEscape(customerID), values, nil)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, err
	}
	if len(customer.Cards.Data) == 0 {
		return nil, errors.New("omise: customer update returned no cards")
	}

	card := customer.Cards.Data[len(customer.Cards.Data)-1]
	return &card, nil
}

func (c *Client) do(ctx context.Context, method, path string, values url.Values, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if values != nil {
		reqBody = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.cfg.SecretKey, "")
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}

	return body, nil
}

func decodeError(statusCode int, body []byte) error {
	var payload struct {
		Object  string `json:"object"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Object == "error" {
		return &APIError{StatusCode: statusCode, Code: payload.Code, Message: payload.Message}
	}
	return &APIError{StatusCode: statusCode, Message: string(body)}
}
