package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-omise/app/entity"
	"github.com/vibast-solutions/ms-go-omise/app/omise"
)

// CustomerCard is the provider-side customer and the stored card to charge.
type CustomerCard struct {
	CustomerID string
	CardID     string
}

// EnsureCustomerWithCard stores the card behind token on the user's provider
// customer, creating the customer when none exists. A stale customer id (the
// provider reports not-found) is treated as orphaned: a fresh customer is
// created exactly once and the attach is not retried. Any other provider
// error propagates unchanged.
//
// Attaching a card to an existing customer is not idempotent; callers invoke
// this at most once per submission.
func (s *GatewayService) EnsureCustomerWithCard(ctx context.Context, existingCustomerID, token, userID, orderID string) (*CustomerCard, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	description := fmt.Sprintf("Customer %s", userID)

	if strings.TrimSpace(existingCustomerID) == "" {
		return s.createCustomerWithCard(ctx, description, token, userID)
	}

	_, err := s.provider.GetCustomer(ctx, existingCustomerID)
	if err != nil {
		if !omise.IsNotFound(err) {
			return nil, err
		}
		// The cached id points at a customer the provider no longer
		// knows; recreate rather than propagate the stale reference.
		return s.createCustomerWithCard(ctx, description, token, userID)
	}

	card, err := s.provider.AttachCard(ctx, existingCustomerID, token)
	if err != nil {
		return nil, err
	}

	result := &CustomerCard{CustomerID: existingCustomerID, CardID: card.ID}
	s.cacheProfile(ctx, userID, result)
	return result, nil
}

func (s *GatewayService) createCustomerWithCard(ctx context.Context, description, token, userID string) (*CustomerCard, error) {
	customer, err := s.provider.CreateCustomer(ctx, description, token)
	if err != nil {
		return nil, err
	}

	cardID := customer.DefaultCard
	if cardID == "" && len(customer.Cards.Data) > 0 {
		cardID = customer.Cards.Data[len(customer.Cards.Data)-1].ID
	}

	result := &CustomerCard{CustomerID: customer.ID, CardID: cardID}
	s.cacheProfile(ctx, userID, result)
	return result, nil
}

// cacheProfile records the (user, mode) → customer mapping. Cache write
// failures are logged, not fatal: the provider-side customer already exists.
func (s *GatewayService) cacheProfile(ctx context.Context, userID string, cc *CustomerCard) {
	cardID := cc.CardID
	profile := &entity.CustomerProfile{
		UserID:      userID,
		Mode:        s.cfg.Mode,
		CustomerID:  cc.CustomerID,
		SavedCardID: &cardID,
	}
	if err := s.customerRepo.Upsert(ctx, profile); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to cache customer profile")
	}
}
