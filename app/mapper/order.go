package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-omise/app/entity"
	"github.com/vibast-solutions/ms-go-omise/app/types"
)

func OrderToResponse(item *entity.Order) *types.OrderResponse {
	if item == nil {
		return nil
	}

	result := &types.OrderResponse{
		ID:       item.ID,
		Status:   item.Status,
		Total:    item.Total.String(),
		Currency: item.Currency,
	}
	if item.TransactionID != nil {
		result.TransactionID = *item.TransactionID
	}
	if item.PaidAt != nil {
		result.PaidAt = item.PaidAt.UTC().Format(time.RFC3339)
	}
	return result
}
