package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-omise/app/entity"
	"github.com/vibast-solutions/ms-go-omise/app/omise"
)

// SyncPayment re-fetches the provider charge attached to the order and
// transitions the recorded order state to match. Provider and status errors
// are contained as order notes; only a missing order is reported back.
func (s *GatewayService) SyncPayment(ctx context.Context, orderID string) error {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	chargeID, err := s.resolveChargeID(ctx, order)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("Charge reference lookup failed")
		s.note(ctx, order.ID, fmt.Sprintf("Omise: Sync failed. %s", err))
		return nil
	}
	if chargeID == "" {
		s.note(ctx, order.ID, fmt.Sprintf("Omise: Sync failed. %s", ErrNoChargeReference))
		return nil
	}

	charge, err := s.provider.RetrieveCharge(ctx, chargeID)
	if err != nil {
		s.note(ctx, order.ID, fmt.Sprintf("Omise: Sync failed. %s", err))
		return nil
	}

	// Orders that predate the transaction id column get it backfilled here.
	if order.TransactionID == nil || *order.TransactionID == "" {
		if err := s.orderRepo.SetTransactionID(ctx, order.ID, charge.ID); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Warn("Failed to backfill transaction id")
		}
	}

	switch charge.Status {
	case omise.ChargeStatusFailed:
		s.note(ctx, order.ID, fmt.Sprintf(
			"Omise: Payment failed. %s (code: %s) (manual sync)",
			charge.FailureMessage, charge.FailureCode,
		))
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusFailed); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Error("Failed to mark order failed")
		}

	case omise.ChargeStatusPending:
		s.note(ctx, order.ID, "Omise: Payment is still in progress. You might wait for a moment before syncing the status again (manual sync)")

	case omise.ChargeStatusSuccessful:
		s.note(ctx, order.ID, fmt.Sprintf(
			"Omise: Payment successful. An amount %s %s has been paid (manual sync)",
			order.Total, order.Currency,
		))
		// Guard against re-firing completion side effects when a webhook
		// or earlier sync already settled the order.
		if !order.IsPaid() {
			if err := s.orderRepo.MarkPaid(ctx, order.ID); err != nil {
				s.logger.WithError(err).WithField("order_id", order.ID).Error("Failed to mark order paid")
			}
		}

	default:
		s.note(ctx, order.ID, fmt.Sprintf("Omise: Sync failed. %s (status: %s)", ErrUnreadableStatus, charge.Status))
	}

	return nil
}

// resolveChargeID walks the reference fallback chain: the transaction id,
// then the legacy meta key, then the legacy linked charge record. First
// non-empty wins.
func (s *GatewayService) resolveChargeID(ctx context.Context, order *entity.Order) (string, error) {
	if order.TransactionID != nil && strings.TrimSpace(*order.TransactionID) != "" {
		return strings.TrimSpace(*order.TransactionID), nil
	}

	chargeID, err := s.orderRepo.FindLegacyChargeID(ctx, order.ID)
	if err != nil {
		return "", err
	}
	if chargeID != "" {
		return chargeID, nil
	}

	return s.orderRepo.FindLinkedChargeID(ctx, order.ID)
}
