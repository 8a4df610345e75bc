package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-omise/app/entity"
	"github.com/vibast-solutions/ms-go-omise/app/omise"
	"github.com/vibast-solutions/ms-go-omise/config"
)

type fakeOrderRepo struct {
	orders     map[string]*entity.Order
	notes      map[string][]string
	legacyMeta map[string]string
	linked     map[string]string

	markPaidCalls int
	setTxnCalls   []string

	failSetTransactionID error
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{
		orders:     map[string]*entity.Order{},
		notes:      map[string][]string{},
		legacyMeta: map[string]string{},
		linked:     map[string]string{},
	}
	for _, order := range orders {
		copyItem := *order
		repo.orders[order.ID] = &copyItem
	}
	return repo
}

func (r *fakeOrderRepo) FindByID(_ context.Context, orderID string) (*entity.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, nil
	}
	copyItem := *order
	return &copyItem, nil
}

func (r *fakeOrderRepo) SetTransactionID(_ context.Context, orderID, transactionID string) error {
	if r.failSetTransactionID != nil {
		return r.failSetTransactionID
	}
	order, ok := r.orders[orderID]
	if !ok {
		return errors.New("order not found")
	}
	id := transactionID
	order.TransactionID = &id
	r.setTxnCalls = append(r.setTxnCalls, transactionID)
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID, status string) error {
	order, ok := r.orders[orderID]
	if !ok {
		return errors.New("order not found")
	}
	order.Status = status
	return nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, orderID string) error {
	order, ok := r.orders[orderID]
	if !ok {
		return errors.New("order not found")
	}
	order.Status = entity.OrderStatusPaid
	now := time.Now().UTC()
	order.PaidAt = &now
	r.markPaidCalls++
	return nil
}

func (r *fakeOrderRepo) AddNote(_ context.Context, orderID, note string) error {
	r.notes[orderID] = append(r.notes[orderID], note)
	return nil
}

func (r *fakeOrderRepo) FindLegacyChargeID(_ context.Context, orderID string) (string, error) {
	return r.legacyMeta[orderID], nil
}

func (r *fakeOrderRepo) FindLinkedChargeID(_ context.Context, orderID string) (string, error) {
	return r.linked[orderID], nil
}

func (r *fakeOrderRepo) ListPendingOlderThan(_ context.Context, _ time.Time, limit int32) ([]*entity.Order, error) {
	items := make([]*entity.Order, 0)
	for _, order := range r.orders {
		if order.Status != entity.OrderStatusPending || order.TransactionID == nil {
			continue
		}
		copyItem := *order
		items = append(items, &copyItem)
		if int32(len(items)) >= limit {
			break
		}
	}
	return items, nil
}

type fakeCustomerRepo struct {
	profiles map[string]*entity.CustomerProfile
	upserts  int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{profiles: map[string]*entity.CustomerProfile{}}
}

func profileKey(userID, mode string) string {
	return userID + "|" + mode
}

func (r *fakeCustomerRepo) FindByUserAndMode(_ context.Context, userID, mode string) (*entity.CustomerProfile, error) {
	profile, ok := r.profiles[profileKey(userID, mode)]
	if !ok {
		return nil, nil
	}
	copyItem := *profile
	return &copyItem, nil
}

func (r *fakeCustomerRepo) Upsert(_ context.Context, profile *entity.CustomerProfile) error {
	copyItem := *profile
	r.profiles[profileKey(profile.UserID, profile.Mode)] = &copyItem
	r.upserts++
	return nil
}

type fakeProvider struct {
	createChargeFn   func(ctx context.Context, req *omise.ChargeRequest) (*omise.Charge, error)
	retrieveChargeFn func(ctx context.Context, chargeID string) (*omise.Charge, error)
	createRefundFn   func(ctx context.Context, chargeID string, amount int64, metadata map[string]string) (*omise.Refund, error)
	createCustomerFn func(ctx context.Context, description, cardToken string) (*omise.Customer, error)
	getCustomerFn    func(ctx context.Context, customerID string) (*omise.Customer, error)
	attachCardFn     func(ctx context.Context, customerID, token string) (*omise.Card, error)
}

func (p *fakeProvider) CreateCharge(ctx context.Context, req *omise.ChargeRequest) (*omise.Charge, error) {
	if p.createChargeFn != nil {
		return p.createChargeFn(ctx, req)
	}
	return nil, errors.New("unexpected CreateCharge call")
}

func (p *fakeProvider) RetrieveCharge(ctx context.Context, chargeID string) (*omise.Charge, error) {
	if p.retrieveChargeFn != nil {
		return p.retrieveChargeFn(ctx, chargeID)
	}
	return nil, errors.New("unexpected RetrieveCharge call")
}

func (p *fakeProvider) CreateRefund(ctx context.Context, chargeID string, amount int64, metadata map[string]string) (*omise.Refund, error) {
	if p.createRefundFn != nil {
		return p.createRefundFn(ctx, chargeID, amount, metadata)
	}
	return nil, errors.New("unexpected CreateRefund call")
}

func (p *fakeProvider) CreateCustomer(ctx context.Context, description, cardToken string) (*omise.Customer, error) {
	if p.createCustomerFn != nil {
		return p.createCustomerFn(ctx, description, cardToken)
	}
	return nil, errors.New("unexpected CreateCustomer call")
}

func (p *fakeProvider) GetCustomer(ctx context.Context, customerID string) (*omise.Customer, error) {
	if p.getCustomerFn != nil {
		return p.getCustomerFn(ctx, customerID)
	}
	return nil, errors.New("unexpected GetCustomer call")
}

func (p *fakeProvider) AttachCard(ctx context.Context, customerID, token string) (*omise.Card, error) {
	if p.attachCardFn != nil {
		return p.attachCardFn(ctx, customerID, token)
	}
	return nil, errors.New("unexpected AttachCard call")
}

func testGatewayConfig() config.GatewayConfig {
	return config.GatewayConfig{
		Mode:           "test",
		CapturePolicy:  CaptureAuto,
		ReturnBaseURL:  "https://shop.example/omise/callbacks",
		SyncStaleAfter: 15 * time.Minute,
		JobBatchSize:   100,
	}
}

func testOrder(id string) *entity.Order {
	return &entity.Order{
		ID:       id,
		UserID:   "user-1",
		Total:    decimal.RequireFromString("100.00"),
		Currency: "THB",
		Status:   entity.OrderStatusUnpaid,
	}
}

func hasNoteContaining(notes []string, substr string) bool {
	for _, note := range notes {
		if strings.Contains(note, substr) {
			return true
		}
	}
	return false
}
