package service

import (
	"context"
	"time"
)

// RunSyncBatch reconciles pending orders whose provider status may have
// drifted: redirect flows the buyer abandoned, webhooks that never arrived.
func (s *GatewayService) RunSyncBatch(ctx context.Context) error {
	before := time.Now().UTC().Add(-s.cfg.SyncStaleAfter)
	orders, err := s.orderRepo.ListPendingOlderThan(ctx, before, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, order := range orders {
		if order == nil {
			continue
		}
		if err := s.SyncPayment(ctx, order.ID); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}
