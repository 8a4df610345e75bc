package types

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// PaymentStatusResponse carries the polled order status, or false when the
// order cannot be resolved.
type PaymentStatusResponse struct {
	Status interface{} `json:"status"`
}

// GatewayConfigResponse is the browser-facing configuration for the card
// form: the tokenization key and the mode it belongs to.
type GatewayConfigResponse struct {
	PublicKey string `json:"public_key"`
	Mode      string `json:"mode"`
}

type CheckoutResponse struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message,omitempty"`
}

type RefundResponse struct {
	RefundID string `json:"refund_id"`
	Voided   bool   `json:"voided"`
	Message  string `json:"message"`
}

type OrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	TransactionID string `json:"transaction_id,omitempty"`
	PaidAt        string `json:"paid_at,omitempty"`
}
