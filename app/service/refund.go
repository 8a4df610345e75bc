package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-omise/app/entity"
	"github.com/vibast-solutions/ms-go-omise/app/money"
)

type RefundResult struct {
	RefundID string
	Voided   bool
	Message  string
}

// Refund creates a provider refund against the order's charge. Failures
// propagate as structured errors to the caller (an admin action), they are
// never swallowed.
func (s *GatewayService) Refund(ctx context.Context, orderID string, amount decimal.Decimal, reason string) (*RefundResult, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.TransactionID == nil || *order.TransactionID == "" {
		return nil, ErrNoChargeReference
	}

	subunit, err := money.ToSubunit(amount, order.Currency)
	if err != nil {
		return nil, err
	}

	refund, err := s.provider.CreateRefund(ctx, *order.TransactionID, subunit, map[string]string{"reason": reason})
	if err != nil {
		return nil, err
	}

	var message string
	if refund.Voided {
		message = fmt.Sprintf("Omise: Voided an amount of %s %s. Refund id is %s", amount, order.Currency, refund.ID)
	} else {
		message = fmt.Sprintf("Omise: Refunded an amount of %s %s. Refund id is %s", amount, order.Currency, refund.ID)
	}
	s.note(ctx, order.ID, message)

	// A voided authorization or a refund covering the full total settles
	// the order; partial refunds only leave the audit note.
	if refund.Voided || amount.GreaterThanOrEqual(order.Total) {
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusRefunded); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Error("Failed to mark order refunded")
		}
	}

	return &RefundResult{RefundID: refund.ID, Voided: refund.Voided, Message: message}, nil
}
