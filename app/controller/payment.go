package controller

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-omise/app/factory"
	"github.com/vibast-solutions/ms-go-omise/app/mapper"
	"github.com/vibast-solutions/ms-go-omise/app/money"
	"github.com/vibast-solutions/ms-go-omise/app/service"
	"github.com/vibast-solutions/ms-go-omise/app/types"
	"github.com/vibast-solutions/ms-go-omise/config"
)

type PaymentController struct {
	gatewayService *service.GatewayService
	cfg            config.GatewayConfig
	publicKey      string
	logger         logrus.FieldLogger
}

func NewPaymentController(gatewayService *service.GatewayService, cfg config.GatewayConfig, publicKey string) *PaymentController {
	return &PaymentController{
		gatewayService: gatewayService,
		cfg:            cfg,
		publicKey:      publicKey,
		logger:         factory.NewModuleLogger("payments-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

// GatewayConfig hands the card form its tokenization key. The secret key
// never leaves the server.
func (c *PaymentController) GatewayConfig(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.GatewayConfigResponse{
		PublicKey: c.publicKey,
		Mode:      c.cfg.Mode,
	})
}

func (c *PaymentController) Checkout(ctx echo.Context) error {
	req, err := types.NewCheckoutRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.gatewayService.ProcessPayment(ctx.Request().Context(), &service.CheckoutInput{
		OrderID:  req.OrderID,
		Token:    req.Token,
		CardID:   req.CardID,
		SaveCard: req.SaveCard,
		Metadata: req.Metadata,
	})
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Checkout failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.CheckoutResponse{
		Result:   result.Result,
		Redirect: result.Redirect,
		Message:  result.Message,
	})
}

func (c *PaymentController) GetOrder(ctx echo.Context) error {
	orderID := ctx.Param("order_id")

	order, err := c.gatewayService.GetOrder(ctx.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get order failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.OrderToResponse(order))
}

func (c *PaymentController) Refund(ctx echo.Context) error {
	req, err := types.NewRefundRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return c.writeError(ctx, http.StatusBadRequest, "amount must be a positive decimal")
	}

	result, err := c.gatewayService.Refund(ctx.Request().Context(), req.OrderID, amount, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrNoChargeReference), errors.Is(err, money.ErrUnsupportedCurrency):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Refund failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.RefundResponse{
		RefundID: result.RefundID,
		Voided:   result.Voided,
		Message:  result.Message,
	})
}

func (c *PaymentController) SyncPayment(ctx echo.Context) error {
	orderID := ctx.Param("order_id")

	if err := c.gatewayService.SyncPayment(ctx.Request().Context(), orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Sync payment failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Sync completed"})
}

// PaymentStatus is the polling endpoint behind the buyer-facing "waiting for
// payment" page. An unresolvable order reports status false instead of an
// error so the page keeps rendering.
func (c *PaymentController) PaymentStatus(ctx echo.Context) error {
	orderID := ctx.QueryParam("order_id")
	if orderID == "" {
		return ctx.JSON(http.StatusOK, &types.PaymentStatusResponse{Status: false})
	}

	order, err := c.gatewayService.GetOrder(ctx.Request().Context(), orderID)
	if err != nil {
		if !errors.Is(err, service.ErrOrderNotFound) {
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Payment status lookup failed")
		}
		return ctx.JSON(http.StatusOK, &types.PaymentStatusResponse{Status: false})
	}

	return ctx.JSON(http.StatusOK, &types.PaymentStatusResponse{Status: order.Status})
}

// HandleReturn receives the buyer back from the 3-D Secure authorize page:
// it re-syncs the order and forwards the buyer to the configured landing page.
func (c *PaymentController) HandleReturn(ctx echo.Context) error {
	orderID := ctx.Param("order_id")

	if err := c.gatewayService.SyncPayment(ctx.Request().Context(), orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Return sync failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	if c.cfg.RedirectRelayURL != "" {
		return ctx.Redirect(http.StatusFound, c.cfg.RedirectRelayURL+"?order_id="+url.QueryEscape(orderID))
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Payment status updated"})
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
