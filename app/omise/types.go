package omise

// Charge statuses returned by the provider.
const (
	ChargeStatusSuccessful = "successful"
	ChargeStatusFailed     = "failed"
	ChargeStatusPending    = "pending"
)

// ChargeRequest is the payload for creating a charge. Exactly one of
// {Card token} or {Customer + Card id} identifies the payment instrument.
type ChargeRequest struct {
	Amount      int64
	Currency    string
	Description string
	ReturnURI   string
	Metadata    map[string]string

	// Card is a one-time token when Customer is empty, otherwise the id
	// of a card stored on Customer.
	Card     string
	Customer string

	// Capture is sent only when non-nil; nil defers to the provider's
	// default capture behaviour.
	Capture *bool

	// IdempotencyKey makes retried submissions safe on the provider side.
	IdempotencyKey string
}

type Charge struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	Paid           bool              `json:"paid"`
	Authorized     bool              `json:"authorized"`
	AuthorizeURI   string            `json:"authorize_uri"`
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	FailureCode    string            `json:"failure_code"`
	FailureMessage string            `json:"failure_message"`
	Metadata       map[string]string `json:"metadata"`
}

type Refund struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Voided   bool   `json:"voided"`
	ChargeID string `json:"charge"`
}

type Card struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	LastFour string `json:"last_digits"`
}

type Customer struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	DefaultCard string `json:"default_card"`
	Cards       struct {
		Data []Card `json:"data"`
	} `json:"cards"`
}
