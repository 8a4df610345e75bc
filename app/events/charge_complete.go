package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-omise/app/factory"
	"github.com/vibast-solutions/ms-go-omise/app/omise"
)

const EventChargeComplete = "charge.complete"

type paymentSyncer interface {
	SyncPayment(ctx context.Context, orderID string) error
}

// ChargeCompleteHandler settles orders from the provider's charge completion
// event: the buyer finished (or abandoned) an out-of-band authorization step
// and the charge reached a terminal or still-pending state.
type ChargeCompleteHandler struct {
	syncer paymentSyncer
	logger logrus.FieldLogger
}

func NewChargeCompleteHandler(syncer paymentSyncer) *ChargeCompleteHandler {
	return &ChargeCompleteHandler{
		syncer: syncer,
		logger: factory.NewModuleLogger("charge-complete-handler"),
	}
}

func (h *ChargeCompleteHandler) Name() string {
	return EventChargeComplete
}

func (h *ChargeCompleteHandler) Handle(ctx context.Context, data json.RawMessage) error {
	var charge omise.Charge
	if err := json.Unmarshal(data, &charge); err != nil {
		return fmt.Errorf("failed to decode charge payload: %w", err)
	}

	orderID := charge.Metadata["order_id"]
	if orderID == "" {
		// Charges created outside this gateway carry no order reference;
		// nothing to settle.
		h.logger.WithField("charge_id", charge.ID).Warn("Charge event without an order reference")
		return nil
	}

	return h.syncer.SyncPayment(ctx, orderID)
}
