package types

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	ErrWrongContentType = errors.New("wrong content type")
	ErrWrongObjectType  = errors.New("wrong object type")
)

type CheckoutRequest struct {
	OrderID  string            `json:"order_id"`
	Token    string            `json:"token"`
	CardID   string            `json:"card_id"`
	SaveCard bool              `json:"save_card"`
	Metadata map[string]string `json:"metadata"`
}

func NewCheckoutRequestFromContext(ctx echo.Context) (*CheckoutRequest, error) {
	var body CheckoutRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.OrderID = strings.TrimSpace(body.OrderID)
	body.Token = strings.TrimSpace(body.Token)
	body.CardID = strings.TrimSpace(body.CardID)

	return &body, nil
}

func (r *CheckoutRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order_id is required")
	}
	return nil
}

type RefundRequest struct {
	OrderID string `json:"-"`
	Amount  string `json:"amount"`
	Reason  string `json:"reason"`
}

func NewRefundRequestFromContext(ctx echo.Context) (*RefundRequest, error) {
	var body RefundRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.OrderID = strings.TrimSpace(ctx.Param("order_id"))
	body.Amount = strings.TrimSpace(body.Amount)
	body.Reason = strings.TrimSpace(body.Reason)

	return &body, nil
}

func (r *RefundRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order_id is required")
	}
	if r.Amount == "" {
		return errors.New("amount is required")
	}
	return nil
}

// WebhookEvent is the provider's generic event notification envelope.
type WebhookEvent struct {
	Object string          `json:"object"`
	Key    string          `json:"key"`
	Data   json.RawMessage `json:"data"`
}

// NewWebhookEventFromContext rejects non-JSON requests before reading the
// body, then requires the event object shape.
func NewWebhookEventFromContext(ctx echo.Context) (*WebhookEvent, error) {
	contentType := ctx.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.TrimSpace(contentType), echo.MIMEApplicationJSON) {
		return nil, ErrWrongContentType
	}

	var body WebhookEvent
	if err := json.NewDecoder(ctx.Request().Body).Decode(&body); err != nil {
		return nil, ErrWrongObjectType
	}
	if body.Object != "event" {
		return nil, ErrWrongObjectType
	}

	return &body, nil
}
