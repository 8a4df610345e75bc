package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-omise/app/entity"
	"github.com/vibast-solutions/ms-go-omise/app/factory"
	"github.com/vibast-solutions/ms-go-omise/app/omise"
	"github.com/vibast-solutions/ms-go-omise/config"
)

// Capture policies. An empty policy defers to the provider's default.
const (
	CaptureAuto            = "auto_capture"
	CaptureManual          = "manual_capture"
	CaptureProviderDefault = ""
)

const defaultBatchSize = int32(100)

type orderRepository interface {
	FindByID(ctx context.Context, orderID string) (*entity.Order, error)
	SetTransactionID(ctx context.Context, orderID, transactionID string) error
	UpdateStatus(ctx context.Context, orderID, status string) error
	MarkPaid(ctx context.Context, orderID string) error
	AddNote(ctx context.Context, orderID, note string) error
	FindLegacyChargeID(ctx context.Context, orderID string) (string, error)
	FindLinkedChargeID(ctx context.Context, orderID string) (string, error)
	ListPendingOlderThan(ctx context.Context, before time.Time, limit int32) ([]*entity.Order, error)
}

type customerRepository interface {
	FindByUserAndMode(ctx context.Context, userID, mode string) (*entity.CustomerProfile, error)
	Upsert(ctx context.Context, profile *entity.CustomerProfile) error
}

type providerClient interface {
	CreateCharge(ctx context.Context, req *omise.ChargeRequest) (*omise.Charge, error)
	RetrieveCharge(ctx context.Context, chargeID string) (*omise.Charge, error)
	CreateRefund(ctx context.Context, chargeID string, amount int64, metadata map[string]string) (*omise.Refund, error)
	CreateCustomer(ctx context.Context, description, cardToken string) (*omise.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*omise.Customer, error)
	AttachCard(ctx context.Context, customerID, token string) (*omise.Card, error)
}

// GatewayService drives the charge lifecycle: it builds and submits charges,
// classifies outcomes into order-state transitions, and re-synchronizes
// orders whose provider-side status has drifted.
type GatewayService struct {
	orderRepo    orderRepository
	customerRepo customerRepository
	provider     providerClient
	cfg          config.GatewayConfig
	logger       logrus.FieldLogger
}

func NewGatewayService(
	orderRepo orderRepository,
	customerRepo customerRepository,
	provider providerClient,
	cfg config.GatewayConfig,
) *GatewayService {
	return &GatewayService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		provider:     provider,
		cfg:          cfg,
		logger:       factory.NewModuleLogger("gateway-service"),
	}
}

// GetOrder loads the platform order, ErrOrderNotFound when absent.
func (s *GatewayService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *GatewayService) batchSize() int32 {
	if s.cfg.JobBatchSize > 0 {
		return s.cfg.JobBatchSize
	}
	return defaultBatchSize
}

// note appends an order note; note-log failures are logged, never fatal.
func (s *GatewayService) note(ctx context.Context, orderID, text string) {
	if err := s.orderRepo.AddNote(ctx, orderID, text); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("Failed to append order note")
	}
}
