package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vibast-solutions/ms-go-omise/app/omise"
)

func TestEnsureCustomerWithCardMissingToken(t *testing.T) {
	s := newTestService(newFakeOrderRepo(), newFakeCustomerRepo(), &fakeProvider{})

	_, err := s.EnsureCustomerWithCard(context.Background(), "", "", "user-1", "ord_1")
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestEnsureCustomerWithCardCreatesNewCustomer(t *testing.T) {
	customers := newFakeCustomerRepo()
	createCalls := 0
	provider := &fakeProvider{
		createCustomerFn: func(_ context.Context, description, cardToken string) (*omise.Customer, error) {
			createCalls++
			if cardToken != "tokn_x" {
				t.Errorf("expected card token tokn_x, got %q", cardToken)
			}
			return &omise.Customer{ID: "cust_new", DefaultCard: "card_new"}, nil
		},
	}
	s := newTestService(newFakeOrderRepo(), customers, provider)

	cc, err := s.EnsureCustomerWithCard(context.Background(), "", "tokn_x", "user-1", "ord_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cc.CustomerID != "cust_new" || cc.CardID != "card_new" {
		t.Errorf("unexpected customer card %+v", cc)
	}
	if createCalls != 1 {
		t.Errorf("expected one CreateCustomer call, got %d", createCalls)
	}

	profile, _ := customers.FindByUserAndMode(context.Background(), "user-1", "test")
	if profile == nil || profile.CustomerID != "cust_new" {
		t.Errorf("expected cached profile for cust_new, got %+v", profile)
	}
}

func TestEnsureCustomerWithCardAttachesToExisting(t *testing.T) {
	customers := newFakeCustomerRepo()
	provider := &fakeProvider{
		getCustomerFn: func(_ context.Context, customerID string) (*omise.Customer, error) {
			return &omise.Customer{ID: customerID}, nil
		},
		attachCardFn: func(_ context.Context, customerID, token string) (*omise.Card, error) {
			if customerID != "cust_1" || token != "tokn_x" {
				t.Errorf("unexpected attach args %q %q", customerID, token)
			}
			return &omise.Card{ID: "card_9"}, nil
		},
	}
	s := newTestService(newFakeOrderRepo(), customers, provider)

	cc, err := s.EnsureCustomerWithCard(context.Background(), "cust_1", "tokn_x", "user-1", "ord_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cc.CustomerID != "cust_1" || cc.CardID != "card_9" {
		t.Errorf("unexpected customer card %+v", cc)
	}
}

func TestEnsureCustomerWithCardRecreatesStaleCustomerOnce(t *testing.T) {
	createCalls := 0
	provider := &fakeProvider{
		getCustomerFn: func(_ context.Context, _ string) (*omise.Customer, error) {
			return nil, &omise.APIError{StatusCode: 404, Code: "not_found", Message: "customer missing"}
		},
		createCustomerFn: func(_ context.Context, _, _ string) (*omise.Customer, error) {
			createCalls++
			return &omise.Customer{ID: "cust_fresh", DefaultCard: "card_fresh"}, nil
		},
	}
	s := newTestService(newFakeOrderRepo(), newFakeCustomerRepo(), provider)

	cc, err := s.EnsureCustomerWithCard(context.Background(), "cust_stale", "tokn_x", "user-1", "ord_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cc.CustomerID != "cust_fresh" {
		t.Errorf("expected fresh customer, got %+v", cc)
	}
	if createCalls != 1 {
		t.Errorf("expected exactly one CreateCustomer call, got %d", createCalls)
	}
}

func TestEnsureCustomerWithCardPropagatesProviderError(t *testing.T) {
	providerErr := &omise.APIError{StatusCode: 401, Code: "authentication_failure", Message: "bad key"}
	provider := &fakeProvider{
		getCustomerFn: func(_ context.Context, _ string) (*omise.Customer, error) {
			return nil, providerErr
		},
	}
	s := newTestService(newFakeOrderRepo(), newFakeCustomerRepo(), provider)

	_, err := s.EnsureCustomerWithCard(context.Background(), "cust_1", "tokn_x", "user-1", "ord_1")
	if !errors.Is(err, providerErr) {
		t.Errorf("expected provider error to propagate, got %v", err)
	}
}

func TestEnsureCustomerWithCardFallsBackToLastListedCard(t *testing.T) {
	provider := &fakeProvider{
		createCustomerFn: func(_ context.Context, _, _ string) (*omise.Customer, error) {
			customer := &omise.Customer{ID: "cust_new"}
			customer.Cards.Data = []omise.Card{{ID: "card_old"}, {ID: "card_latest"}}
			return customer, nil
		},
	}
	s := newTestService(newFakeOrderRepo(), newFakeCustomerRepo(), provider)

	cc, err := s.EnsureCustomerWithCard(context.Background(), "", "tokn_x", "user-1", "ord_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cc.CardID != "card_latest" {
		t.Errorf("expected newest listed card, got %q", cc.CardID)
	}
}
