package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vibast-solutions/ms-go-omise/app/entity"
	"github.com/vibast-solutions/ms-go-omise/app/money"
	"github.com/vibast-solutions/ms-go-omise/app/omise"
)

// Instrument selects the payment instrument for a charge: either a one-time
// card token, or a card stored on a provider customer.
type Instrument struct {
	Token      string
	CustomerID string
	CardID     string
}

func (i Instrument) hasStoredCard() bool {
	return i.CustomerID != "" && i.CardID != ""
}

func (i Instrument) hasToken() bool {
	return i.Token != ""
}

// buildChargeRequest assembles the provider charge payload from the order.
// The stored-card shape wins when both shapes are present; neither present
// is ErrMissingPaymentInstrument.
func (s *GatewayService) buildChargeRequest(
	order *entity.Order,
	instrument Instrument,
	metadata map[string]string,
	idempotencyKey string,
) (*omise.ChargeRequest, error) {
	if !instrument.hasStoredCard() && !instrument.hasToken() {
		return nil, ErrMissingPaymentInstrument
	}

	amount, err := money.ToSubunit(order.Total, order.Currency)
	if err != nil {
		return nil, err
	}

	req := &omise.ChargeRequest{
		Amount:         amount,
		Currency:       order.Currency,
		Description:    fmt.Sprintf("Order id %s", order.ID),
		ReturnURI:      s.returnURI(order.ID),
		Metadata:       chargeMetadata(metadata, order.ID),
		IdempotencyKey: idempotencyKey,
	}

	if instrument.hasStoredCard() {
		req.Customer = instrument.CustomerID
		req.Card = instrument.CardID
	} else {
		req.Card = instrument.Token
	}

	switch s.cfg.CapturePolicy {
	case CaptureAuto:
		capture := true
		req.Capture = &capture
	case CaptureManual:
		capture := false
		req.Capture = &capture
	}

	return req, nil
}

// chargeMetadata merges caller metadata with the order id applied last, so
// the order reference can never be unset by the caller.
func chargeMetadata(metadata map[string]string, orderID string) map[string]string {
	merged := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		merged[k] = v
	}
	merged["order_id"] = orderID
	return merged
}

// returnURI is computed for every charge regardless of whether the provider
// ends up using it; redirect-capable flows require it up front.
func (s *GatewayService) returnURI(orderID string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.ReturnBaseURL), "/")
	if base == "" {
		return ""
	}
	return base + "/" + url.PathEscape(orderID)
}
