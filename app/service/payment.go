package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-omise/app/entity"
	"github.com/vibast-solutions/ms-go-omise/app/omise"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type CheckoutInput struct {
	OrderID  string
	Token    string
	CardID   string
	SaveCard bool
	Metadata map[string]string
}

// PaymentResult is the structured checkout outcome handed back to the host
// platform. Failures on the checkout path land here, never as a raised fault.
type PaymentResult struct {
	Result   string
	Redirect string
	Message  string
	ChargeID string
}

const genericFailureMessage = "Note that your payment may have already been processed. " +
	"Please contact our support team if you have any questions."

// ProcessPayment submits a charge for the order and transitions its state
// from the classified outcome. The transaction reference is persisted
// immediately after the charge is created, before any classification side
// effect, so a later sync can always locate the charge.
func (s *GatewayService) ProcessPayment(ctx context.Context, input *CheckoutInput) (*PaymentResult, error) {
	order, err := s.GetOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	s.note(ctx, order.ID, "Omise: Processing a payment with Credit / Debit Card")

	if input.Token == "" && input.CardID == "" {
		return s.paymentFailed(ctx, order, ErrMissingPaymentInstrument.Error()), nil
	}

	customerID := ""
	profile, err := s.customerRepo.FindByUserAndMode(ctx, order.UserID, s.cfg.Mode)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		customerID = profile.CustomerID
	}

	cardID := input.CardID
	if input.SaveCard && cardID == "" {
		cc, err := s.EnsureCustomerWithCard(ctx, customerID, input.Token, order.UserID, order.ID)
		if err != nil {
			return s.paymentFailed(ctx, order, err.Error()), nil
		}
		customerID = cc.CustomerID
		cardID = cc.CardID
	}

	instrument := Instrument{Token: input.Token}
	if cardID != "" {
		instrument = Instrument{CustomerID: customerID, CardID: cardID}
	}

	chargeReq, err := s.buildChargeRequest(order, instrument, input.Metadata, uuid.NewString())
	if err != nil {
		return s.paymentFailed(ctx, order, err.Error()), nil
	}

	charge, err := s.provider.CreateCharge(ctx, chargeReq)
	if err != nil {
		return s.paymentFailed(ctx, order, err.Error()), nil
	}

	s.note(ctx, order.ID, fmt.Sprintf("Omise: Charge (ID: %s) has been created", charge.ID))
	if err := s.orderRepo.SetTransactionID(ctx, order.ID, charge.ID); err != nil {
		return nil, err
	}

	return s.classify(ctx, order, charge), nil
}

// classify turns the returned charge into an order transition and result.
func (s *GatewayService) classify(ctx context.Context, order *entity.Order, charge *omise.Charge) *PaymentResult {
	if charge.Status == omise.ChargeStatusFailed {
		return s.paymentFailed(ctx, order, charge.FailureMessage)
	}

	// Pending with an authorize URI and no money movement yet means the
	// buyer must complete an out-of-band step (3-D Secure).
	if charge.Status == omise.ChargeStatusPending && !charge.Authorized && !charge.Paid && charge.AuthorizeURI != "" {
		s.note(ctx, order.ID, fmt.Sprintf("Omise: Processing a 3-D Secure payment, redirecting buyer to %s", charge.AuthorizeURI))
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusPending); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Warn("Failed to mark order pending")
		}
		return &PaymentResult{Result: ResultSuccess, Redirect: charge.AuthorizeURI, ChargeID: charge.ID}
	}

	var success bool
	switch s.cfg.CapturePolicy {
	case CaptureManual:
		success = charge.Authorized
		if success {
			s.note(ctx, order.ID, fmt.Sprintf(
				"Omise: Payment processing. An amount of %s %s has been authorized",
				order.Total, order.Currency,
			))
		}
	case CaptureAuto:
		success = charge.Paid
		if success {
			s.note(ctx, order.ID, fmt.Sprintf(
				"Omise: Payment successful. An amount of %s %s has been paid",
				order.Total, order.Currency,
			))
		}
	default:
		// Provider-default policy: paid wins, authorized is accepted
		// as a fallback.
		success = charge.Paid
		if !success {
			success = charge.Authorized
		}
		if success {
			s.note(ctx, order.ID, fmt.Sprintf(
				"Omise: Payment successful. An amount of %s %s has been collected",
				order.Total, order.Currency,
			))
		}
	}

	if !success {
		return s.paymentFailed(ctx, order, genericFailureMessage)
	}

	if !order.IsPaid() {
		if err := s.orderRepo.MarkPaid(ctx, order.ID); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Error("Failed to mark order paid")
		}
	}

	return &PaymentResult{Result: ResultSuccess, ChargeID: charge.ID}
}

// paymentFailed appends the failure note and produces the user-visible
// failure result. The order status is left for reconciliation to settle.
func (s *GatewayService) paymentFailed(ctx context.Context, order *entity.Order, message string) *PaymentResult {
	s.note(ctx, order.ID, fmt.Sprintf("Omise: Payment failed, %s", message))
	return &PaymentResult{Result: ResultFailure, Message: message}
}
